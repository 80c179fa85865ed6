package models

import (
	"gorm.io/gorm"
)

// User represents an employee account.
type User struct {
	gorm.Model
	EmployeeID string   `gorm:"uniqueIndex;not null" json:"employee_id"`
	Name       string   `gorm:"not null" json:"name"`
	Password   string   `gorm:"not null" json:"-"`
	Department string   `json:"department"`
	Position   string   `json:"position"`
	Role       UserRole `gorm:"not null;default:EMPLOYEE" json:"role"`
}

// UserRole distinguishes ordinary employees from admins.
type UserRole string

const (
	RoleEmployee UserRole = "EMPLOYEE"
	RoleAdmin    UserRole = "ADMIN"
)
