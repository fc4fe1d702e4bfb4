package export

import (
	"fmt"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"muawin-server/internal/models"
)

// SheetName is the worksheet holding exported consultations.
const SheetName = "Consultations"

var headers = map[string]string{
	"A1": "ID",
	"B1": "Date",
	"C1": "Patient ID",
	"D1": "Patient",
	"E1": "Symptoms",
	"F1": "Diagnosis",
	"G1": "Prescription",
	"H1": "Tests",
	"I1": "Referrals",
	"J1": "Document",
}

// Consultations writes one row per consultation into an xlsx workbook.
// Patient must be preloaded for the name column.
func Consultations(rows []models.Consultation) ([]byte, error) {
	file := excelize.NewFile()
	index := file.NewSheet(SheetName)
	file.DeleteSheet("Sheet1")
	file.SetActiveSheet(index)
	for k, v := range headers {
		file.SetCellValue(SheetName, k, v)
	}

	for i := range rows {
		appendConsultationRow(file, i, rows[i])
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write consultations workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func appendConsultationRow(file *excelize.File, index int, c models.Consultation) {
	row := index + 2
	var referrals []string
	for _, r := range c.Referrals {
		referrals = append(referrals, fmt.Sprintf("%s (%s)", r.SpecialistName, r.Category))
	}

	file.SetCellValue(SheetName, fmt.Sprintf("A%d", row), c.ID)
	file.SetCellValue(SheetName, fmt.Sprintf("B%d", row), c.ConsultationDate.Format("2006-01-02 15:04"))
	file.SetCellValue(SheetName, fmt.Sprintf("C%d", row), c.PatientID)
	file.SetCellValue(SheetName, fmt.Sprintf("D%d", row), c.Patient.Name)
	file.SetCellValue(SheetName, fmt.Sprintf("E%d", row), strings.Join(c.Symptoms, ", "))
	file.SetCellValue(SheetName, fmt.Sprintf("F%d", row), c.Diagnosis)
	file.SetCellValue(SheetName, fmt.Sprintf("G%d", row), c.Prescription)
	file.SetCellValue(SheetName, fmt.Sprintf("H%d", row), strings.Join(c.Tests, ", "))
	file.SetCellValue(SheetName, fmt.Sprintf("I%d", row), strings.Join(referrals, "; "))
	file.SetCellValue(SheetName, fmt.Sprintf("J%d", row), c.PrescriptionPDF)
}
