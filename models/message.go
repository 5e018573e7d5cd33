package models

import "time"

// Message is a single chat message. Messages are immutable once created
// and belong to exactly one room and one author.
type Message struct {
	ID      uint64 `gorm:"primaryKey"`
	RoomID  uint64
	Room    *Room
	UserID  uint64
	User    *User
	Time    time.Time `gorm:"not null"`
	Content string    `gorm:"size:1000;not null"`
	Color   string    `gorm:"size:1000;not null"`
}
