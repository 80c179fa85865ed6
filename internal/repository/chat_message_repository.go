package repository

import (
	"time"

	"office_web/internal/models"
	"office_web/internal/storage"
)

type ChatMessageRepository interface {
	Create(message *models.ChatMessage) error
	// FindRecent returns up to limit messages for the room, newest first.
	FindRecent(roomID uint, limit int) ([]models.ChatMessage, error)
	// FindByRoom pages through the room history, newest first.
	FindByRoom(roomID uint, offset, limit int) ([]models.ChatMessage, error)
	FindLast(roomID uint) (*models.ChatMessage, error)
	// CountUnread counts messages created after since that the employee
	// did not send.
	CountUnread(roomID uint, since *time.Time, employeeID string) (int64, error)
}

type chatMessageRepository struct {
	db *storage.PostgresDB
}

func NewChatMessageRepository(db *storage.PostgresDB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Create(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *chatMessageRepository) FindRecent(roomID uint, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *chatMessageRepository) FindByRoom(roomID uint, offset, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *chatMessageRepository) FindLast(roomID uint) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *chatMessageRepository) CountUnread(roomID uint, since *time.Time, employeeID string) (int64, error) {
	query := r.db.Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND sender_id <> ?", roomID, employeeID)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
