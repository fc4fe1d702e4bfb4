package llm

import (
	"fmt"
	"strings"

	"muawin-server/internal/models"
)

// PatientContext is the patient and symptom block shared by the diagnosis
// prompts.
func PatientContext(p models.Patient, symptoms []string) string {
	return fmt.Sprintf(`You are a primary healthcare physician in Pakistan. A patient with following details:
Name: %s
Age: %d
Gender: %s
Temperature: %s
Blood Pressure: %s
Pre-existing Conditions: %s

Showing the following symptoms:
%s`, p.Name, p.Age, p.Gender, p.Temperature, p.BloodPressure, p.PreConditions, strings.Join(symptoms, ", "))
}

// DiagnosisPrompt asks for possible diagnoses in the DIAGNOSIS / Reasons /
// Treatment plan layout understood by clinical.ExtractDiagnoses.
func DiagnosisPrompt(p models.Patient, symptoms []string) string {
	return PatientContext(p, symptoms) + `

Evaluate this and provide a list of possible diagnosis. The output format should be as follows:
DIAGNOSIS:
Reasons:
Treatment plan:
Recommended tests:`
}

// RegenerationPrompt feeds the doctor's comments back with the patient context.
func RegenerationPrompt(p models.Patient, symptoms []string, comments string) string {
	return fmt.Sprintf(`Another doctor has provide following comments about the diagnosis:
%s

Patient information is:
%s

Analyse and provide diagnosis`, comments, PatientContext(p, symptoms))
}

// PrescriptionPrompt asks for a medication table for the confirmed diagnosis.
func PrescriptionPrompt(diagnosis string, p models.Patient) string {
	return fmt.Sprintf(`Based on the following diagnosis for a patient in Pakistan:
%s

Patient details:
Name: %s
Age: %d
Gender: %s

Generate a detailed prescription with appropriate medications available in the Pakistani market.
Include dosage, frequency, and duration for each medication. Format your response as a table of medications,
 with Name, dosage, Duration and side-effects.`, diagnosis, p.Name, p.Age, p.Gender)
}

// PrescriptionRequestPrompt wraps a bare diagnosis for /generate-prescription.
func PrescriptionRequestPrompt(diagnosis string) string {
	return "Generate a detailed prescription with appropriate medications available in the Pakistani market for this diagnosis: " + diagnosis
}

// TranslationPrompt asks for a plain translation with no commentary.
func TranslationPrompt(text string, lang Language) string {
	return fmt.Sprintf(`Translate the following medical text into %s.
Keep medication names, dosages and numbers unchanged. Reply with the translation only.

%s`, lang.Name, text)
}
