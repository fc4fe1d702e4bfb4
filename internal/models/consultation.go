package models

import (
	"time"

	"gorm.io/datatypes"
)

// Consultation is one patient visit: symptoms, diagnosis and prescription.
type Consultation struct {
	NumericModel
	DoctorID         uint                                 `gorm:"index" json:"doctorId"`
	PatientID        string                               `gorm:"index;size:36" json:"patientId"`
	Symptoms         datatypes.JSONSlice[string]          `json:"symptoms"`
	VitalSigns       datatypes.JSONMap                    `json:"vitalSigns"`
	PreConditions    string                               `gorm:"type:text" json:"preConditions"`
	Diagnosis        string                               `gorm:"type:text" json:"diagnosis"`
	Prescription     string                               `gorm:"type:text" json:"prescription"`
	PrescriptionPDF  string                               `gorm:"column:prescription_pdf;size:512" json:"prescriptionPdf"`
	Tests            datatypes.JSONSlice[string]          `json:"tests"`
	Referrals        datatypes.JSONSlice[ReferralSummary] `json:"referrals"`
	ConsultationDate time.Time                            `json:"consultationDate"`

	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// ReferralSummary is the copy of a referral kept on the consultation row.
type ReferralSummary struct {
	ReferralID     uint      `json:"referralId"`
	SpecialistID   uint      `json:"specialistId"`
	SpecialistName string    `json:"specialistName"`
	Category       string    `json:"category"`
	Hospital       string    `json:"hospital"`
	Reason         string    `json:"reason"`
	Date           time.Time `json:"date"`
}
