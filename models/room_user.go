package models

import "time"

// RoomUser records that a user is a member of a room. Membership is
// independent of having created the room. The composite unique index keeps
// a (room, user) pair from being recorded twice.
type RoomUser struct {
	ID          uint64 `gorm:"primaryKey"`
	RoomID      uint64 `gorm:"uniqueIndex:idx_room_user"`
	Room        *Room
	UserID      uint64 `gorm:"uniqueIndex:idx_room_user"`
	User        *User
	CreatedDate time.Time
}
