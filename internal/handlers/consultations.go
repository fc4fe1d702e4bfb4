package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"muawin-server/internal/clinical"
	"muawin-server/internal/documents"
	"muawin-server/internal/export"
	"muawin-server/internal/models"
	"muawin-server/internal/storage"
	"muawin-server/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConsultationHandler handles saved consultations and their documents.
type ConsultationHandler struct {
	DB     *gorm.DB
	Store  storage.Store
	Logger *zap.Logger
	docs   *publisher
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(db *gorm.DB, renderer DocumentRenderer, store storage.Store, logger *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		DB:     db,
		Store:  store,
		Logger: logger,
		docs:   &publisher{renderer: renderer, store: store, logger: logger},
	}
}

// ConsultationRequest represents the request body for saving a consultation.
type ConsultationRequest struct {
	DoctorID     uint     `json:"doctorId"`
	PatientID    string   `json:"patientId" binding:"required"`
	Symptoms     []string `json:"symptoms"`
	Diagnosis    string   `json:"diagnosis" binding:"required"`
	Prescription string   `json:"prescription"`
	Tests        []string `json:"tests"`
	Date         string   `json:"date"`
}

var consultationDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseConsultationDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range consultationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// newConsultation snapshots the patient's vitals and conditions into a record.
func newConsultation(doctorID uint, p *models.Patient, symptoms []string, diagnosis, prescription string, tests []string, date time.Time) models.Consultation {
	if tests == nil {
		tests = clinical.ExtractTests(diagnosis)
	}
	return models.Consultation{
		DoctorID:         doctorID,
		PatientID:        p.ID,
		Symptoms:         datatypes.NewJSONSlice(symptoms),
		VitalSigns:       datatypes.JSONMap(p.VitalSigns()),
		PreConditions:    p.PreConditions,
		Diagnosis:        diagnosis,
		Prescription:     prescription,
		Tests:            datatypes.NewJSONSlice(tests),
		Referrals:        datatypes.NewJSONSlice([]models.ReferralSummary{}),
		ConsultationDate: date,
	}
}

// SaveConsultation stores a finished consultation. The doctor defaults to the
// authenticated one; only admins may save on behalf of another doctor.
func (h *ConsultationHandler) SaveConsultation(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}

	var req ConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	doctorID := who.ID
	if req.DoctorID != 0 && req.DoctorID != who.ID {
		if !who.isAdmin() {
			utils.Forbidden(c, "You can only save consultations as yourself")
			return
		}
		doctorID = req.DoctorID
	}
	date, err := parseConsultationDate(req.Date)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	patient, ok := findPatient(c, h.DB, req.PatientID)
	if !ok {
		return
	}

	consultation := newConsultation(doctorID, patient, req.Symptoms, req.Diagnosis, req.Prescription, req.Tests, date)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&consultation).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to save consultation: "+err.Error())
		return
	}

	consultation.Patient = *patient
	utils.Created(c, "Consultation saved successfully", consultation)
}

// GetConsultations lists consultations, optionally for one patient. Doctors
// see their own; admins see all.
func (h *ConsultationHandler) GetConsultations(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}

	consultations, err := h.query(who, c.Query("patientId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch consultations: "+err.Error())
		return
	}
	utils.Success(c, "Consultations fetched successfully", consultations)
}

func (h *ConsultationHandler) query(who caller, patientID string) ([]models.Consultation, error) {
	q := h.DB.Preload("Patient").Order("consultation_date DESC, id DESC")
	if !who.isAdmin() {
		q = q.Where("doctor_id = ?", who.ID)
	}
	if patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}
	consultations := []models.Consultation{}
	if err := q.Find(&consultations).Error; err != nil {
		return nil, err
	}
	return consultations, nil
}

// loadConsultation fetches the consultation named by :id and checks that the
// caller may see it. It writes the error response itself.
func (h *ConsultationHandler) loadConsultation(c *gin.Context) (*models.Consultation, bool) {
	who, ok := currentCaller(c)
	if !ok {
		return nil, false
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	var consultation models.Consultation
	if err := h.DB.Preload("Patient").First(&consultation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Consultation not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	if !who.owns(consultation.DoctorID) {
		utils.Forbidden(c, "You do not have access to this consultation")
		return nil, false
	}
	return &consultation, true
}

// GetConsultation fetches one consultation.
func (h *ConsultationHandler) GetConsultation(c *gin.Context) {
	consultation, ok := h.loadConsultation(c)
	if !ok {
		return
	}
	utils.Success(c, "Consultation fetched successfully", consultation)
}

// DeleteConsultation removes a consultation and its stored document.
func (h *ConsultationHandler) DeleteConsultation(c *gin.Context) {
	consultation, ok := h.loadConsultation(c)
	if !ok {
		return
	}
	if err := h.DB.Delete(&models.Consultation{}, consultation.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete consultation: "+err.Error())
		return
	}
	if consultation.PrescriptionPDF != "" {
		if err := h.Store.Delete(c.Request.Context(), consultation.PrescriptionPDF); err != nil && !errors.Is(err, storage.ErrNoObject) {
			h.Logger.Warn("failed to remove consultation document", zap.Uint("consultation_id", consultation.ID), zap.Error(err))
		}
	}
	utils.Success(c, "Consultation deleted successfully", nil)
}

// RenderDocument renders the prescription document (?format=pdf|html) and
// stores it, replacing any previous one.
func (h *ConsultationHandler) RenderDocument(c *gin.Context) {
	format, ok := documents.ParseFormat(c.Query("format"))
	if !ok {
		utils.BadRequest(c, "format must be pdf or html")
		return
	}
	consultation, ok := h.loadConsultation(c)
	if !ok {
		return
	}

	info, err := h.docs.publish(c.Request.Context(), h.DB, consultation, format)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate document: "+err.Error())
		return
	}
	utils.Created(c, "Document generated successfully", info)
}

// DownloadDocument streams the stored prescription document.
func (h *ConsultationHandler) DownloadDocument(c *gin.Context) {
	consultation, ok := h.loadConsultation(c)
	if !ok {
		return
	}
	if consultation.PrescriptionPDF == "" {
		utils.NotFound(c, "No document has been generated for this consultation")
		return
	}

	data, header, err := h.Store.Get(c.Request.Context(), consultation.PrescriptionPDF)
	if err != nil {
		if errors.Is(err, storage.ErrNoObject) {
			utils.NotFound(c, "Document not found")
		} else {
			utils.InternalServerError(c, "Failed to read document: "+err.Error())
		}
		return
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(consultation.PrescriptionPDF)))
	c.Data(http.StatusOK, contentType, data)
}

// ExportConsultations returns the caller's consultations as an xlsx workbook.
func (h *ConsultationHandler) ExportConsultations(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}

	consultations, err := h.query(who, c.Query("patientId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch consultations: "+err.Error())
		return
	}
	data, err := export.Consultations(consultations)
	if err != nil {
		utils.InternalServerError(c, "Failed to export consultations: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="consultations.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
