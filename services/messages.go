package services

import (
	"time"

	"github.com/godocompany/roomchat-api/models"
	"gorm.io/gorm"
)

// RecentMessageCount is the size of the history window returned to clients
const RecentMessageCount = 40

// MessagesService manages persisted chat messages
type MessagesService struct {
	DB *gorm.DB
}

// CreateMessage appends a message to a room's history with a
// server-assigned timestamp
func (s *MessagesService) CreateMessage(roomID, userID uint64, content, color string) (*models.Message, error) {
	message := models.Message{
		RoomID:  roomID,
		UserID:  userID,
		Time:    time.Now(),
		Content: content,
		Color:   color,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetRecentMessages gets the most recent messages in a room, in insertion
// order, with the author preloaded on each. At most RecentMessageCount
// messages are returned.
func (s *MessagesService) GetRecentMessages(roomID uint64) ([]*models.Message, error) {

	// Fetch the newest messages first so the limit trims the oldest ones
	var messages []*models.Message
	err := s.DB.
		Preload("User").
		Where("room_id = ?", roomID).
		Order("id DESC").
		Limit(RecentMessageCount).
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}

	// Put them back into insertion order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil

}
