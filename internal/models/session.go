package models

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"muawin-server/internal/clinical"
)

// Stage is the step a consultation session has reached
type Stage string

const (
	StagePatientSelected   Stage = "patient_selected"
	StageSymptomsConfirmed Stage = "symptoms_confirmed"
	StageDiagnosed         Stage = "diagnosed"
	StagePrescribed        Stage = "prescribed"
	StageFinalized         Stage = "finalized"
)

// ErrStageConflict is returned when a session step is attempted out of order.
var ErrStageConflict = errors.New("consultation session is not at the required stage")

// ConsultationSession carries a doctor's in-progress consultation between
// requests, from patient selection to the saved consultation.
type ConsultationSession struct {
	BaseModel
	DoctorID          uint                                     `gorm:"index" json:"doctorId"`
	PatientID         string                                   `gorm:"size:36" json:"patientId"`
	Stage             Stage                                    `gorm:"size:30;index" json:"stage"`
	Symptoms          datatypes.JSONSlice[string]              `json:"symptoms"`
	RawDiagnosis      string                                   `gorm:"type:text" json:"rawDiagnosis"`
	DiagnosisOptions  datatypes.JSONSlice[string]              `json:"diagnosisOptions"`
	Diagnosis         string                                   `gorm:"type:text" json:"diagnosis"`
	PrescriptionDraft string                                   `gorm:"type:text" json:"prescriptionDraft"`
	Medications       datatypes.JSONSlice[clinical.Medication] `json:"medications"`
	Instructions      string                                   `gorm:"type:text" json:"instructions"`
	Prescription      string                                   `gorm:"type:text" json:"prescription"`
	ConsultationID    *uint                                    `json:"consultationId,omitempty"`
	// Revision counts writes; an update must name the revision it read.
	Revision          uint                                     `gorm:"not null;default:0" json:"revision"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

// Require returns ErrStageConflict unless the session is at one of stages.
func (s *ConsultationSession) Require(stages ...Stage) error {
	for _, st := range stages {
		if s.Stage == st {
			return nil
		}
	}
	return fmt.Errorf("%w: at %s, need one of %v", ErrStageConflict, s.Stage, stages)
}

// ResetAfterSymptoms clears everything derived from a previous symptom list.
func (s *ConsultationSession) ResetAfterSymptoms() {
	s.RawDiagnosis = ""
	s.DiagnosisOptions = nil
	s.Diagnosis = ""
	s.ResetPrescription()
}

// ResetPrescription clears the prescription drafted for an earlier diagnosis.
func (s *ConsultationSession) ResetPrescription() {
	s.PrescriptionDraft = ""
	s.Medications = nil
	s.Instructions = ""
	s.Prescription = ""
}
