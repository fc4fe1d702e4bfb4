package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"muawin-server/internal/models"
)

func TestConsultationsWorkbook(t *testing.T) {
	rows := []models.Consultation{
		{
			NumericModel:     models.NumericModel{ID: 7},
			PatientID:        "P001",
			Patient:          models.Patient{Name: "Ahmed Khan"},
			Symptoms:         []string{"Fever", "Cough"},
			Diagnosis:        "Viral Fever",
			Prescription:     "PRESCRIPTION:\n\n• Panadol - 500mg\n",
			Tests:            []string{"CBC"},
			Referrals:        []models.ReferralSummary{{SpecialistName: "Dr. Sana Khan", Category: "Pulmonology"}},
			ConsultationDate: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}

	data, err := Consultations(rows)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}

	cases := []struct {
		cell string
		want string
	}{
		{"A1", "ID"},
		{"D1", "Patient"},
		{"A2", "7"},
		{"B2", "2024-03-01 09:00"},
		{"D2", "Ahmed Khan"},
		{"E2", "Fever, Cough"},
		{"H2", "CBC"},
		{"I2", "Dr. Sana Khan (Pulmonology)"},
	}
	for _, c := range cases {
		if got := f.GetCellValue(SheetName, c.cell); got != c.want {
			t.Fatalf("%s = %q, want %q", c.cell, got, c.want)
		}
	}
}
