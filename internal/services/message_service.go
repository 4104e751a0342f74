// internal/services/message_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type MessageService struct {
	db *gorm.DB
}

type SendMessageRequest struct {
	ReceiverID *utils.FlexID `json:"receiver_id" validate:"required"`
	Content    *string       `json:"content" validate:"required"`
}

type MessageView struct {
	ID        uint   `json:"id"`
	SenderID  uint   `json:"sender_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// ListConversationPeers returns every user of the opposite role. It is a
// directory, not a list of users the caller has actually talked to.
func (s *MessageService) ListConversationPeers(ctx context.Context, user *models.User) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).
		Where("is_seller = ?", !user.IsSeller).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// History returns the messages exchanged between userID and otherID in
// either direction, oldest first.
func (s *MessageService) History(ctx context.Context, userID, otherID uint) ([]MessageView, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Timestamp: formatTime(m.Timestamp),
		})
	}
	return views, nil
}

func (s *MessageService) Send(ctx context.Context, senderID uint, req *SendMessageRequest) (*models.Message, error) {
	if req.ReceiverID == nil || req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		return nil, newError(ErrBadRequest, i18n.KeyValidationMissingData)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", uint(*req.ReceiverID)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, newError(ErrNotFound, i18n.KeyUserNotFound)
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: uint(*req.ReceiverID),
		Content:    *req.Content,
	}
	if err := db.Omit(clause.Associations).Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}
