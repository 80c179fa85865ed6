package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type ChatMemberRepository interface {
	Create(member *models.ChatMember) error
	Find(roomID uint, employeeID string) (*models.ChatMember, error)
	Update(member *models.ChatMember) error
	FindActiveByRoom(roomID uint) ([]models.ChatMember, error)
	CountActiveByRoom(roomID uint) (int64, error)
}

type chatMemberRepository struct {
	db *storage.PostgresDB
}

func NewChatMemberRepository(db *storage.PostgresDB) ChatMemberRepository {
	return &chatMemberRepository{db: db}
}

func (r *chatMemberRepository) Create(member *models.ChatMember) error {
	return r.db.Create(member).Error
}

func (r *chatMemberRepository) Find(roomID uint, employeeID string) (*models.ChatMember, error) {
	var member models.ChatMember
	err := r.db.Where("chat_room_id = ? AND employee_id = ?", roomID, employeeID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *chatMemberRepository) Update(member *models.ChatMember) error {
	return r.db.Save(member).Error
}

func (r *chatMemberRepository) FindActiveByRoom(roomID uint) ([]models.ChatMember, error) {
	var members []models.ChatMember
	err := r.db.Where("chat_room_id = ? AND is_active = true", roomID).Find(&members).Error
	return members, err
}

func (r *chatMemberRepository) CountActiveByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_room_id = ? AND is_active = true", roomID).
		Count(&count).Error
	return count, err
}
