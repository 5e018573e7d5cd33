package models

import "time"

// Room represents a single chat room, with a unique chat history. The
// creator reference is informational only: the creator can leave the room
// like any other member.
type Room struct {
	ID            uint64 `gorm:"primaryKey"`
	Name          string `gorm:"size:1000;not null"`
	CreatorUserID uint64
	Creator       *User `gorm:"foreignKey:CreatorUserID"`
	CreatedDate   time.Time
}
