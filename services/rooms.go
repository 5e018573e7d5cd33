package services

import (
	"errors"
	"strings"
	"time"

	"github.com/godocompany/roomchat-api/models"
	"gorm.io/gorm"
)

// ErrAlreadyMember is returned when joining a room the user is already in
var ErrAlreadyMember = errors.New("user is already a member of the room")

// ErrNotMember is returned for room operations that require membership
var ErrNotMember = errors.New("user is not a member of the room")

// RoomsService manages chat rooms and their memberships
type RoomsService struct {
	DB *gorm.DB
}

// GetRoomByID gets the room with the provided id
func (s *RoomsService) GetRoomByID(id uint64) (*models.Room, error) {
	var room models.Room
	err := s.DB.
		Where("id = ?", id).
		First(&room).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates a new room and immediately adds the creator as a
// member, both within a single transaction
func (s *RoomsService) CreateRoom(name string, creatorUserID uint64) (*models.Room, error) {
	room := models.Room{
		Name:          name,
		CreatorUserID: creatorUserID,
		CreatedDate:   time.Now(),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		membership := models.RoomUser{
			RoomID:      room.ID,
			UserID:      creatorUserID,
			CreatedDate: time.Now(),
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser gets all of the rooms the user is a member of
func (s *RoomsService) GetRoomsForUser(userID uint64) ([]*models.Room, error) {
	var rooms []*models.Room
	err := s.DB.
		Joins("JOIN room_users ON room_users.room_id = rooms.id").
		Where("room_users.user_id = ?", userID).
		Order("rooms.id").
		Find(&rooms).
		Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// SearchRoomsByName gets all rooms whose name contains the given
// substring, regardless of membership. LIKE only prefilters here: its
// default collation is case-insensitive on sqlite, and the contract is a
// case-sensitive match, so the exact check happens in Go.
func (s *RoomsService) SearchRoomsByName(substring string) ([]*models.Room, error) {
	var candidates []*models.Room
	err := s.DB.
		Where("name LIKE ?", "%"+substring+"%").
		Order("id").
		Find(&candidates).
		Error
	if err != nil {
		return nil, err
	}
	rooms := make([]*models.Room, 0, len(candidates))
	for _, room := range candidates {
		if strings.Contains(room.Name, substring) {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

// IsMember reports whether a membership exists for the (user, room) pair
func (s *RoomsService) IsMember(roomID, userID uint64) (bool, error) {
	var membership models.RoomUser
	err := s.DB.
		Where("room_id = ?", roomID).
		Where("user_id = ?", userID).
		First(&membership).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddMember adds the user to the room. Returns ErrAlreadyMember if a
// membership already exists.
func (s *RoomsService) AddMember(roomID, userID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {

		// Check for an existing membership inside the transaction so two
		// concurrent joins can't both pass the check
		var existing models.RoomUser
		err := tx.
			Where("room_id = ?", roomID).
			Where("user_id = ?", userID).
			First(&existing).
			Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Record the membership
		membership := models.RoomUser{
			RoomID:      roomID,
			UserID:      userID,
			CreatedDate: time.Now(),
		}
		return tx.Create(&membership).Error

	})
}

// RemoveMember removes the user from the room. Returns ErrNotMember if no
// membership exists.
func (s *RoomsService) RemoveMember(roomID, userID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("room_id = ?", roomID).
			Where("user_id = ?", userID).
			Delete(&models.RoomUser{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotMember
		}
		return nil
	})
}
