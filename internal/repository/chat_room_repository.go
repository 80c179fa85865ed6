package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type ChatRoomRepository interface {
	Create(room *models.ChatRoom) error
	FindByID(id uint) (*models.ChatRoom, error)
	Update(room *models.ChatRoom) error
	// FindIndividualRoom returns the 1:1 room shared by the two employees,
	// if one exists.
	FindIndividualRoom(employeeID1, employeeID2 string) (*models.ChatRoom, error)
	// FindByEmployeeID lists the rooms the employee is an active member of,
	// newest first.
	FindByEmployeeID(employeeID string) ([]models.ChatRoom, error)
}

type chatRoomRepository struct {
	db *storage.PostgresDB
}

func NewChatRoomRepository(db *storage.PostgresDB) ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

func (r *chatRoomRepository) Create(room *models.ChatRoom) error {
	return r.db.Create(room).Error
}

func (r *chatRoomRepository) FindByID(id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) Update(room *models.ChatRoom) error {
	return r.db.Save(room).Error
}

func (r *chatRoomRepository) FindIndividualRoom(employeeID1, employeeID2 string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.
		Joins("JOIN chat_members m1 ON m1.chat_room_id = chat_rooms.id AND m1.employee_id = ? AND m1.is_active = true", employeeID1).
		Joins("JOIN chat_members m2 ON m2.chat_room_id = chat_rooms.id AND m2.employee_id = ? AND m2.is_active = true", employeeID2).
		Where("chat_rooms.room_type = ?", models.ChatRoomIndividual).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) FindByEmployeeID(employeeID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.
		Joins("JOIN chat_members m ON m.chat_room_id = chat_rooms.id AND m.employee_id = ? AND m.is_active = true", employeeID).
		Where("chat_rooms.is_active = true").
		Order("chat_rooms.updated_at DESC").
		Find(&rooms).Error
	return rooms, err
}
