package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered chat user
type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string
	Email       string `gorm:"uniqueIndex;size:100"`
	Password    string `gorm:"size:100;not null"`
	Accepted    bool
	CreatedDate time.Time
}

// SetPassword hashes the plaintext password and stores the hash on the user
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// VerifyPassword checks the plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
