package repository

import (
	"office_web/internal/models"
	"office_web/internal/storage"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByEmployeeID(employeeID string) (*models.User, error)
}

type userRepository struct {
	db *storage.PostgresDB
}

func NewUserRepository(db *storage.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmployeeID(employeeID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("employee_id = ?", employeeID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
