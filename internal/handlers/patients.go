package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"muawin-server/internal/clinical"
	"muawin-server/internal/llm"
	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

// PatientHandler serves the patient registry.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// PatientSummary is a row of the patient picker.
type PatientSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetPatients lists patient ids and names.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	var patients []PatientSummary
	if err := h.DB.Model(&models.Patient{}).Select("id", "name").Order("id").Scan(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	if patients == nil {
		patients = []PatientSummary{}
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatient fetches a patient record.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, ok := findPatient(c, h.DB, c.Param("id"))
	if !ok {
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// findPatient loads a patient or writes a 404/500 response.
func findPatient(c *gin.Context, db *gorm.DB, id string) (*models.Patient, bool) {
	var patient models.Patient
	if err := db.First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &patient, true
}

// PatientRequest represents the request body for creating or updating a patient.
type PatientRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name" binding:"required"`
	Age           int    `json:"age" binding:"gte=0,lte=150"`
	Gender        string `json:"gender" binding:"required"`
	Temperature   string `json:"temperature"`
	BloodPressure string `json:"bloodPressure"`
	PreConditions string `json:"preConditions"`
	Language      string `json:"language"`
}

// language resolves the requested language to its canonical name. Empty
// means unchanged.
func (r PatientRequest) language() (string, error) {
	if strings.TrimSpace(r.Language) == "" {
		return "", nil
	}
	lang, err := llm.ResolveLanguage(r.Language)
	if err != nil {
		return "", err
	}
	return lang.Name, nil
}

func (r PatientRequest) apply(p *models.Patient, language string) {
	p.Name = r.Name
	p.Age = r.Age
	p.Gender = r.Gender
	p.Temperature = r.Temperature
	p.BloodPressure = r.BloodPressure
	p.PreConditions = r.PreConditions
	if language != "" {
		p.Language = language
	}
}

// CreatePatient registers a patient. The id is chosen by the caller.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.ID == "" {
		utils.BadRequest(c, "Validation failed: id is required")
		return
	}
	language, err := req.language()
	if err != nil {
		utils.BadRequest(c, "Validation failed: "+err.Error())
		return
	}

	var count int64
	if err := h.DB.Model(&models.Patient{}).Where("id = ?", req.ID).Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if count > 0 {
		utils.Conflict(c, "Patient with this id already exists")
		return
	}

	patient := models.Patient{ID: req.ID, Language: "English"}
	req.apply(&patient, language)
	if err := h.DB.Create(&patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}
	utils.Created(c, "Patient created successfully", patient)
}

// UpdatePatient replaces a patient's demographics and vitals.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	language, err := req.language()
	if err != nil {
		utils.BadRequest(c, "Validation failed: "+err.Error())
		return
	}

	patient, ok := findPatient(c, h.DB, c.Param("id"))
	if !ok {
		return
	}
	req.apply(patient, language)
	if err := h.DB.Save(patient).Error; err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}
	utils.Success(c, "Patient updated successfully", patient)
}

// GetSymptoms returns the common symptom checklist.
func (h *PatientHandler) GetSymptoms(c *gin.Context) {
	utils.Success(c, "Symptoms fetched successfully", clinical.CommonSymptoms)
}
