package models

import (
	"time"
)

// ReferralStatus enum
type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "Pending"
	ReferralAccepted  ReferralStatus = "Accepted"
	ReferralCompleted ReferralStatus = "Completed"
	ReferralCancelled ReferralStatus = "Cancelled"
)

// Valid reports whether s is a known referral status.
func (s ReferralStatus) Valid() bool {
	switch s {
	case ReferralPending, ReferralAccepted, ReferralCompleted, ReferralCancelled:
		return true
	}
	return false
}

// Referral sends a patient to a specialist
type Referral struct {
	NumericModel
	DoctorID     uint           `gorm:"index" json:"doctorId"`
	PatientID    string         `gorm:"index;size:36" json:"patientId"`
	SpecialistID uint           `gorm:"index" json:"specialistId"`
	Reason       string         `gorm:"type:text" json:"reason"`
	ReferralDate time.Time      `json:"referralDate"`
	Status       ReferralStatus `gorm:"size:20;default:'Pending'" json:"status"`

	Doctor     Doctor     `gorm:"foreignKey:DoctorID" json:"-"`
	Patient    Patient    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Specialist Specialist `gorm:"foreignKey:SpecialistID" json:"specialist,omitempty"`
}

// Summary is the form stored in a consultation's referral list.
func (r *Referral) Summary() ReferralSummary {
	return ReferralSummary{
		ReferralID:     r.ID,
		SpecialistID:   r.SpecialistID,
		SpecialistName: r.Specialist.Name,
		Category:       r.Specialist.Category,
		Hospital:       r.Specialist.Hospital,
		Reason:         r.Reason,
		Date:           r.ReferralDate,
	}
}
