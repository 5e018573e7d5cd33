package services

import (
	"errors"
	"time"

	"github.com/godocompany/roomchat-api/models"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned when registering with an email address
// that already belongs to a user
var ErrDuplicateEmail = errors.New("email address is already registered")

// UsersService manages user registration and credential checks
type UsersService struct {
	DB *gorm.DB
}

// GetUserByEmail gets the user with the provided email address. The
// email is user-supplied, so the match is exact rather than LIKE, which
// would treat % and _ as wildcards.
func (s *UsersService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID gets the user with the provided id
func (s *UsersService) GetUserByID(id uint64) (*models.User, error) {
	var user models.User
	err := s.DB.
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser registers a new user with a hashed password. Returns
// ErrDuplicateEmail if the email address is already taken.
func (s *UsersService) CreateUser(email, name, password string) (*models.User, error) {

	// Hash the password up front, outside the transaction
	user := models.User{
		Name:        name,
		Email:       email,
		CreatedDate: time.Now(),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	// Check and insert in one transaction. The unique index on email
	// backstops the check against concurrent registrations.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.
			Where("email = ?", email).
			First(&existing).
			Error
		if err == nil {
			return ErrDuplicateEmail
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil

}

// FindByLogin finds a user with the provided login credentials. Returns
// nil without an error when the email is unknown or the password does not
// match, so callers can't tell the two cases apart.
func (s *UsersService) FindByLogin(email, password string) (*models.User, error) {

	// Find the user with the email
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	// Verify the password
	if !user.VerifyPassword(password) {
		return nil, nil
	}

	// Return the user
	return user, nil

}
