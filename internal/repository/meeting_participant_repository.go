package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type MeetingParticipantRepository interface {
	Create(participant *models.MeetingParticipant) error
	Delete(roomID, employeeID string) error
	Find(roomID, employeeID string) (*models.MeetingParticipant, error)
	FindByRoom(roomID string) ([]models.MeetingParticipant, error)
	CountByRoom(roomID string) (int64, error)
}

type meetingParticipantRepository struct {
	db *storage.PostgresDB
}

func NewMeetingParticipantRepository(db *storage.PostgresDB) MeetingParticipantRepository {
	return &meetingParticipantRepository{db: db}
}

func (r *meetingParticipantRepository) Create(participant *models.MeetingParticipant) error {
	return r.db.Create(participant).Error
}

func (r *meetingParticipantRepository) Delete(roomID, employeeID string) error {
	return r.db.Where("room_id = ? AND employee_id = ?", roomID, employeeID).
		Delete(&models.MeetingParticipant{}).Error
}

func (r *meetingParticipantRepository) Find(roomID, employeeID string) (*models.MeetingParticipant, error) {
	var participant models.MeetingParticipant
	err := r.db.Where("room_id = ? AND employee_id = ?", roomID, employeeID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *meetingParticipantRepository) FindByRoom(roomID string) ([]models.MeetingParticipant, error) {
	var participants []models.MeetingParticipant
	err := r.db.Where("room_id = ?", roomID).Find(&participants).Error
	return participants, err
}

func (r *meetingParticipantRepository) CountByRoom(roomID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.MeetingParticipant{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}
