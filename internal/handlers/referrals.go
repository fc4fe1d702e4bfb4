package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

// ReferralHandler handles referrals of patients to specialists.
type ReferralHandler struct {
	DB *gorm.DB
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(db *gorm.DB) *ReferralHandler {
	return &ReferralHandler{DB: db}
}

// CreateReferralRequest represents the request body for creating a referral.
type CreateReferralRequest struct {
	PatientID      string `json:"patientId" binding:"required"`
	SpecialistID   uint   `json:"specialistId" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	ConsultationID uint   `json:"consultationId"`
}

// requestError is a validation failure raised inside a transaction.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func respondRequestError(c *gin.Context, err error, fallback string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		utils.Error(c, reqErr.status, reqErr.message)
		return
	}
	utils.InternalServerError(c, fallback+err.Error())
}

// CreateReferral refers a patient to a specialist. When a consultation id is
// given, the referral summary is appended to that consultation in the same
// transaction.
func (h *ReferralHandler) CreateReferral(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}
	var req CreateReferralRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	referral := models.Referral{
		DoctorID:     who.ID,
		PatientID:    req.PatientID,
		SpecialistID: req.SpecialistID,
		Reason:       req.Reason,
		ReferralDate: time.Now(),
		Status:       models.ReferralPending,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&referral.Patient, "id = ?", req.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &requestError{404, "Patient not found"}
			}
			return err
		}
		if err := tx.First(&referral.Specialist, req.SpecialistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &requestError{404, "Specialist not found"}
			}
			return err
		}

		var consultation models.Consultation
		if req.ConsultationID != 0 {
			if err := tx.First(&consultation, req.ConsultationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &requestError{404, "Consultation not found"}
				}
				return err
			}
			if !who.owns(consultation.DoctorID) {
				return &requestError{403, "You do not have access to this consultation"}
			}
			if consultation.PatientID != req.PatientID {
				return &requestError{400, "Consultation belongs to a different patient"}
			}
		}

		if err := tx.Omit("Doctor", "Patient", "Specialist").Create(&referral).Error; err != nil {
			return err
		}

		if req.ConsultationID != 0 {
			consultation.Referrals = append(consultation.Referrals, referral.Summary())
			if err := tx.Model(&consultation).Update("referrals", consultation.Referrals).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondRequestError(c, err, "Failed to create referral: ")
		return
	}

	utils.Created(c, "Referral created successfully", referral)
}

// GetReferrals lists referrals, optionally for one patient. Doctors see the
// referrals they made; admins see all.
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		return
	}

	q := h.DB.Preload("Patient").Preload("Specialist").Order("referral_date DESC, id DESC")
	if !who.isAdmin() {
		q = q.Where("doctor_id = ?", who.ID)
	}
	if patientID := c.Query("patientId"); patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	referrals := []models.Referral{}
	if err := q.Find(&referrals).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch referrals: "+err.Error())
		return
	}
	utils.Success(c, "Referrals fetched successfully", referrals)
}

func (h *ReferralHandler) load(c *gin.Context) (*models.Referral, bool) {
	who, ok := currentCaller(c)
	if !ok {
		return nil, false
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}

	var referral models.Referral
	if err := h.DB.Preload("Patient").Preload("Specialist").First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Referral not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	if !who.owns(referral.DoctorID) {
		utils.Forbidden(c, "You do not have access to this referral")
		return nil, false
	}
	return &referral, true
}

// UpdateReferralStatusRequest represents the request body for a status change.
type UpdateReferralStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateReferralStatus moves a referral to Pending, Accepted, Completed or Cancelled.
func (h *ReferralHandler) UpdateReferralStatus(c *gin.Context) {
	var req UpdateReferralStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	status := models.ReferralStatus(req.Status)
	if !status.Valid() {
		utils.BadRequest(c, "Invalid referral status: "+req.Status)
		return
	}

	referral, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.DB.Model(referral).Update("status", status).Error; err != nil {
		utils.InternalServerError(c, "Failed to update referral: "+err.Error())
		return
	}
	referral.Status = status
	utils.Success(c, "Referral status updated successfully", referral)
}

// DeleteReferral removes a referral. Summaries already copied into
// consultations are left as they were.
func (h *ReferralHandler) DeleteReferral(c *gin.Context) {
	referral, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.DB.Delete(&models.Referral{}, referral.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete referral: "+err.Error())
		return
	}
	utils.Success(c, "Referral deleted successfully", nil)
}
