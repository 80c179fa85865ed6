package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type MeetingRoomRepository interface {
	Create(room *models.MeetingRoom) error
	FindByID(roomID string) (*models.MeetingRoom, error)
	Update(room *models.MeetingRoom) error
	FindActive() ([]models.MeetingRoom, error)
}

type meetingRoomRepository struct {
	db *storage.PostgresDB
}

func NewMeetingRoomRepository(db *storage.PostgresDB) MeetingRoomRepository {
	return &meetingRoomRepository{db: db}
}

func (r *meetingRoomRepository) Create(room *models.MeetingRoom) error {
	return r.db.Create(room).Error
}

func (r *meetingRoomRepository) FindByID(roomID string) (*models.MeetingRoom, error) {
	var room models.MeetingRoom
	err := r.db.Where("room_id = ?", roomID).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *meetingRoomRepository) Update(room *models.MeetingRoom) error {
	return r.db.Save(room).Error
}

func (r *meetingRoomRepository) FindActive() ([]models.MeetingRoom, error) {
	var rooms []models.MeetingRoom
	err := r.db.Where("status = ?", models.RoomStatusActive).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}
