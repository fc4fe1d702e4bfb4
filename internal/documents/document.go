package documents

import (
	"time"

	"muawin-server/internal/clinical"
	"muawin-server/internal/models"
)

// Format selects the output of Render.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat maps a query value to a Format; empty means PDF.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatHTML:
		return FormatHTML, true
	}
	return "", false
}

// Prescription is the content of a printed prescription.
type Prescription struct {
	PatientName  string
	Age          int
	Gender       string
	Date         time.Time
	DoctorName   string
	Diagnosis    string
	Prescription string
	Tests        []string
	Referrals    []models.ReferralSummary
}

// FromConsultation builds the document content for a saved consultation.
func FromConsultation(c models.Consultation, p models.Patient, d models.Doctor) Prescription {
	return Prescription{
		PatientName:  p.Name,
		Age:          p.Age,
		Gender:       p.Gender,
		Date:         c.ConsultationDate,
		DoctorName:   d.Name,
		Diagnosis:    c.Diagnosis,
		Prescription: c.Prescription,
		Tests:        c.Tests,
		Referrals:    c.Referrals,
	}
}

func (p Prescription) structured() (clinical.StructuredPrescription, bool) {
	return clinical.SplitFinalPrescription(p.Prescription)
}

// Rendered is a finished document.
type Rendered struct {
	Data        []byte
	ContentType string
	Extension   string
	Engine      string
}
