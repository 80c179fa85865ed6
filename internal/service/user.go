package service

import (
	"office_web/internal/models"
	"office_web/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(user *models.User) error {
	return s.userRepo.Create(user)
}

func (s *UserService) GetUserByEmployeeID(employeeID string) (*models.User, error) {
	return s.userRepo.FindByEmployeeID(employeeID)
}
