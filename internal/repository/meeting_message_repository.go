package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type MeetingMessageRepository interface {
	Create(message *models.MeetingMessage) error
	FindByID(id uint) (*models.MeetingMessage, error)
	Update(message *models.MeetingMessage) error
	// FindRecent returns up to limit non-deleted messages, newest first.
	FindRecent(roomID string, limit int) ([]models.MeetingMessage, error)
	FindByRoom(roomID string, offset, limit int) ([]models.MeetingMessage, error)
}

type meetingMessageRepository struct {
	db *storage.PostgresDB
}

func NewMeetingMessageRepository(db *storage.PostgresDB) MeetingMessageRepository {
	return &meetingMessageRepository{db: db}
}

func (r *meetingMessageRepository) Create(message *models.MeetingMessage) error {
	return r.db.Create(message).Error
}

func (r *meetingMessageRepository) FindByID(id uint) (*models.MeetingMessage, error) {
	var message models.MeetingMessage
	err := r.db.First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *meetingMessageRepository) Update(message *models.MeetingMessage) error {
	return r.db.Save(message).Error
}

func (r *meetingMessageRepository) FindRecent(roomID string, limit int) ([]models.MeetingMessage, error) {
	var messages []models.MeetingMessage
	err := r.db.Where("room_id = ? AND deleted = false", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *meetingMessageRepository) FindByRoom(roomID string, offset, limit int) ([]models.MeetingMessage, error) {
	var messages []models.MeetingMessage
	err := r.db.Where("room_id = ? AND deleted = false", roomID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
