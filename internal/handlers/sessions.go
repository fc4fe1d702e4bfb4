package handlers

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"muawin-server/internal/clinical"
	"muawin-server/internal/documents"
	"muawin-server/internal/llm"
	"muawin-server/internal/models"
	"muawin-server/internal/storage"
	"muawin-server/internal/utils"
)

// SessionHandler drives a consultation from patient selection to the saved
// record: symptoms, generated diagnosis, confirmed diagnosis, editable
// medications and finally the consultation and its document.
type SessionHandler struct {
	DB     *gorm.DB
	LLM    llm.Completer
	Logger *zap.Logger
	docs   *publisher
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(db *gorm.DB, completer llm.Completer, renderer DocumentRenderer, store storage.Store, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		DB:     db,
		LLM:    completer,
		Logger: logger,
		docs:   &publisher{renderer: renderer, store: store, logger: logger},
	}
}

// CreateSessionRequest represents the request body for starting a consultation.
type CreateSessionRequest struct {
	PatientID string `json:"patientId" binding:"required"`
}

// CreateSession starts a consultation for a patient.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	patient, ok := findPatient(c, h.DB, req.PatientID)
	if !ok {
		return
	}

	session := models.ConsultationSession{
		DoctorID:  who.ID,
		PatientID: patient.ID,
		Stage:     models.StagePatientSelected,
	}
	if err := h.DB.Omit("Patient").Create(&session).Error; err != nil {
		utils.InternalServerError(c, "Failed to start consultation: "+err.Error())
		return
	}
	session.Patient = *patient
	utils.Created(c, "Consultation started", session)
}

// load fetches the session named by :id. Only the doctor who started it may
// use it.
func (h *SessionHandler) load(c *gin.Context) (*models.ConsultationSession, bool) {
	who, ok := currentCaller(c)
	if !ok {
		return nil, false
	}

	var session models.ConsultationSession
	if err := h.DB.Preload("Patient").First(&session, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consultation session not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	if session.DoctorID != who.ID {
		utils.Forbidden(c, "This consultation belongs to another doctor")
		return nil, false
	}
	return &session, true
}

// loadAt is load followed by a stage check.
func (h *SessionHandler) loadAt(c *gin.Context, stages ...models.Stage) (*models.ConsultationSession, bool) {
	session, ok := h.load(c)
	if !ok {
		return nil, false
	}
	if err := session.Require(stages...); err != nil {
		utils.Conflict(c, err.Error())
		return nil, false
	}
	return session, true
}

// errSessionChanged means another request wrote the session after it was loaded.
var errSessionChanged = errors.New("consultation was changed by another request; reload it and try again")

// updateSession writes the session's workflow columns, provided nobody else has
// written it since it was loaded.
func updateSession(db *gorm.DB, session *models.ConsultationSession) error {
	result := db.Model(&models.ConsultationSession{}).
		Where("id = ? AND revision = ?", session.ID, session.Revision).
		Updates(map[string]interface{}{
			"stage":              session.Stage,
			"symptoms":           session.Symptoms,
			"raw_diagnosis":      session.RawDiagnosis,
			"diagnosis_options":  session.DiagnosisOptions,
			"diagnosis":          session.Diagnosis,
			"prescription_draft": session.PrescriptionDraft,
			"medications":        session.Medications,
			"instructions":       session.Instructions,
			"prescription":       session.Prescription,
			"consultation_id":    session.ConsultationID,
			"revision":           gorm.Expr("revision + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errSessionChanged
	}
	session.Revision++
	return nil
}

func (h *SessionHandler) save(c *gin.Context, session *models.ConsultationSession, message string) {
	if err := updateSession(h.DB, session); err != nil {
		if errors.Is(err, errSessionChanged) {
			utils.Conflict(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to update consultation: "+err.Error())
		}
		return
	}
	utils.Success(c, message, session)
}

// GetSession returns the current state of a consultation.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.load(c)
	if !ok {
		return
	}
	utils.Success(c, "Consultation fetched successfully", session)
}

// SymptomsRequest represents the checked symptoms plus any typed in by the doctor.
type SymptomsRequest struct {
	Symptoms       []string `json:"symptoms"`
	CustomSymptoms []string `json:"customSymptoms"`
}

// mergeSymptoms joins both lists, dropping blanks and case-insensitive duplicates.
func mergeSymptoms(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, s := range list {
			s = strings.TrimSpace(s)
			key := strings.ToLower(s)
			if s == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// ConfirmSymptoms records the symptoms. Anything derived from earlier
// symptoms is discarded.
func (h *SessionHandler) ConfirmSymptoms(c *gin.Context) {
	var req SymptomsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	symptoms := mergeSymptoms(req.Symptoms, req.CustomSymptoms)
	if len(symptoms) == 0 {
		utils.BadRequest(c, "At least one symptom is required")
		return
	}

	session, ok := h.loadAt(c, models.StagePatientSelected, models.StageSymptomsConfirmed, models.StageDiagnosed, models.StagePrescribed)
	if !ok {
		return
	}
	session.Symptoms = datatypes.NewJSONSlice(symptoms)
	session.ResetAfterSymptoms()
	session.Stage = models.StageSymptomsConfirmed
	h.save(c, session, "Symptoms confirmed")
}

// diagnosisStages are the stages from which a diagnosis can be (re)generated.
var diagnosisStages = []models.Stage{models.StageSymptomsConfirmed, models.StageDiagnosed, models.StagePrescribed}

// GenerateDiagnosis asks the model for possible diagnoses.
func (h *SessionHandler) GenerateDiagnosis(c *gin.Context) {
	session, ok := h.loadAt(c, diagnosisStages...)
	if !ok {
		return
	}
	h.diagnose(c, session, llm.DiagnosisPrompt(session.Patient, session.Symptoms))
}

// RegenerateRequest carries the doctor's comments on the previous diagnosis.
type RegenerateRequest struct {
	Comments string `json:"comments" binding:"required"`
}

// RegenerateDiagnosis asks again, with the doctor's comments.
func (h *SessionHandler) RegenerateDiagnosis(c *gin.Context) {
	var req RegenerateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	session, ok := h.loadAt(c, diagnosisStages...)
	if !ok {
		return
	}
	h.diagnose(c, session, llm.RegenerationPrompt(session.Patient, session.Symptoms, req.Comments))
}

func (h *SessionHandler) diagnose(c *gin.Context, session *models.ConsultationSession, prompt string) {
	text, err := h.LLM.Complete(c.Request.Context(), prompt)
	if err != nil {
		respondLLMError(c, h.Logger, err)
		return
	}

	session.ResetAfterSymptoms()
	session.RawDiagnosis = text
	session.DiagnosisOptions = datatypes.NewJSONSlice(clinical.DiagnosisOptions(text))
	session.Stage = models.StageSymptomsConfirmed
	h.save(c, session, "Diagnosis generated")
}

// ConfirmDiagnosisRequest is either a selection of generated options with
// optional notes, or a manually written diagnosis. Accept takes the generated
// text as it is; an empty request does the same when no options could be
// extracted from it.
type ConfirmDiagnosisRequest struct {
	Selected []string `json:"selected"`
	Notes    string   `json:"notes"`
	Manual   string   `json:"manual"`
	Accept   bool     `json:"accept"`
}

// ConfirmDiagnosis fixes the diagnosis, then drafts a prescription for it and
// parses the draft into editable medications.
func (h *SessionHandler) ConfirmDiagnosis(c *gin.Context) {
	var req ConfirmDiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	session, ok := h.loadAt(c, diagnosisStages...)
	if !ok {
		return
	}

	diagnosis := strings.TrimSpace(req.Manual)
	if diagnosis == "" {
		picked := len(req.Selected) > 0 || strings.TrimSpace(req.Notes) != ""
		if !picked && !req.Accept && (session.RawDiagnosis == "" || len(session.DiagnosisOptions) > 0) {
			utils.BadRequest(c, "Select a diagnosis or write one manually")
			return
		}
		if session.RawDiagnosis == "" {
			utils.Conflict(c, "Generate a diagnosis before selecting from it")
			return
		}
		for _, s := range req.Selected {
			if s != clinical.OtherOption && !contains(session.DiagnosisOptions, s) {
				utils.BadRequest(c, "Unknown diagnosis option: "+s)
				return
			}
		}
		diagnosis = clinical.ComposeDiagnosis(req.Selected, req.Notes, session.RawDiagnosis)
	}

	draft, err := h.LLM.Complete(c.Request.Context(), llm.PrescriptionPrompt(diagnosis, session.Patient))
	if err != nil {
		respondLLMError(c, h.Logger, err)
		return
	}

	session.ResetPrescription()
	session.Diagnosis = diagnosis
	session.PrescriptionDraft = draft
	session.Medications = datatypes.NewJSONSlice(clinical.ParseMedications(draft))
	session.Stage = models.StageDiagnosed
	h.save(c, session, "Diagnosis confirmed")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// MedicationsRequest carries the doctor's edited medication table.
type MedicationsRequest struct {
	Medications  []clinical.Medication `json:"medications"`
	Instructions string                `json:"instructions"`
}

// UpdateMedications formats the final prescription text. Without a
// medication list the parsed draft is used as is.
func (h *SessionHandler) UpdateMedications(c *gin.Context) {
	var req MedicationsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	session, ok := h.loadAt(c, models.StageDiagnosed, models.StagePrescribed)
	if !ok {
		return
	}

	if req.Medications != nil {
		session.Medications = datatypes.NewJSONSlice(req.Medications)
	}
	session.Instructions = req.Instructions
	session.Prescription = clinical.FormatPrescription(session.Medications, session.Instructions)
	session.Stage = models.StagePrescribed
	h.save(c, session, "Prescription updated")
}

// FinalizeRequest optionally overrides the prescription text and picks the
// document format.
type FinalizeRequest struct {
	Prescription string `json:"prescription"`
	Format       string `json:"format"`
}

// FinalizeResponse is the saved consultation and its document. Document is
// nil when the consultation was saved but the document could not be stored.
type FinalizeResponse struct {
	Session       *models.ConsultationSession `json:"session"`
	Consultation  *models.Consultation        `json:"consultation"`
	Document      *DocumentInfo               `json:"document"`
	DocumentError string                      `json:"documentError,omitempty"`
}

// Finalize saves the consultation, then renders and stores its prescription.
func (h *SessionHandler) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	format, ok := documents.ParseFormat(req.Format)
	if !ok {
		utils.BadRequest(c, "format must be pdf or html")
		return
	}

	session, ok := h.loadAt(c, models.StageDiagnosed, models.StagePrescribed)
	if !ok {
		return
	}

	prescription := strings.TrimSpace(req.Prescription)
	if prescription == "" {
		prescription = session.Prescription
	}
	if prescription == "" {
		prescription = clinical.FormatPrescription(session.Medications, session.Instructions)
	}
	tests := clinical.ExtractTests(session.Diagnosis)
	if len(tests) == 0 {
		tests = clinical.ExtractTests(session.RawDiagnosis)
	}
	if tests == nil {
		tests = []string{}
	}

	consultation := newConsultation(session.DoctorID, &session.Patient, session.Symptoms, session.Diagnosis, prescription, tests, time.Now())
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&consultation).Error; err != nil {
			return err
		}
		session.Prescription = prescription
		session.ConsultationID = &consultation.ID
		session.Stage = models.StageFinalized
		return updateSession(tx, session)
	})
	if errors.Is(err, errSessionChanged) {
		utils.Conflict(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to save consultation: "+err.Error())
		return
	}
	consultation.Patient = session.Patient

	resp := FinalizeResponse{Session: session, Consultation: &consultation}
	info, err := h.docs.publish(c.Request.Context(), h.DB, &consultation, format)
	if err != nil {
		h.Logger.Error("consultation saved without document",
			zap.Uint("consultation_id", consultation.ID),
			zap.Error(err))
		resp.DocumentError = err.Error()
	} else {
		resp.Document = info
	}

	h.Logger.Info("consultation finalized",
		zap.String("session_id", session.ID),
		zap.Uint("consultation_id", consultation.ID),
		zap.Uint("doctor_id", session.DoctorID))
	utils.Created(c, "Consultation saved successfully", resp)
}

// DeleteSession abandons a consultation. A consultation saved from it is kept.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	session, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.DB.Delete(&models.ConsultationSession{}, "id = ?", session.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to end consultation: "+err.Error())
		return
	}
	utils.Success(c, "Consultation ended", nil)
}
