package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Doctor is a clinician account that runs consultations
type Doctor struct {
	NumericModel
	Username       string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password       string `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Name           string `gorm:"size:255" json:"name"`
	Email          string `gorm:"size:255" json:"email"`
	Specialization string `gorm:"size:255" json:"specialization"`
	Role           Role   `gorm:"size:20;default:'doctor'" json:"role"`

	RefreshTokens []RefreshToken `gorm:"foreignKey:DoctorID" json:"-"`
	Consultations []Consultation `gorm:"foreignKey:DoctorID" json:"-"`
}

// DoctorSanitized is the doctor data that is safe to send in API responses.
type DoctorSanitized struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the doctor
func (d *Doctor) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the doctor's hashed password
func (d *Doctor) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(password))
	return err == nil
}

// Sanitize drops credentials from the doctor record.
func (d *Doctor) Sanitize() DoctorSanitized {
	return DoctorSanitized{
		ID:             d.ID,
		Username:       d.Username,
		Name:           d.Name,
		Email:          d.Email,
		Specialization: d.Specialization,
		Role:           d.Role,
		CreatedAt:      d.CreatedAt,
	}
}
