package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

// DoctorHandler handles doctor account management (admin operations).
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// CreateDoctorRequest represents the request body for creating a doctor account.
type CreateDoctorRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	Specialization string `json:"specialization"`
	Role           string `json:"role" binding:"omitempty,oneof=doctor admin"`
}

// CreateDoctor creates a doctor account.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Doctor
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Conflict(c, "Doctor with this username already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	doctor := models.Doctor{
		Username:       req.Username,
		Name:           req.Name,
		Email:          req.Email,
		Specialization: req.Specialization,
		Role:           models.RoleDoctor,
	}
	if req.Role != "" {
		doctor.Role = models.Role(req.Role)
	}
	if err := doctor.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	utils.Created(c, "Doctor created successfully", doctor.Sanitize())
}

// GetDoctors lists all doctor accounts.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Order("id").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.DoctorSanitized, len(doctors))
	for i := range doctors {
		sanitized[i] = doctors[i].Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// GetDoctorByID fetches a single doctor account.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor.Sanitize())
}

// UpdateDoctorRequest represents the request body for updating a doctor by an admin.
type UpdateDoctorRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email" binding:"omitempty,email"`
	Specialization string `json:"specialization"`
	Role           string `json:"role" binding:"omitempty,oneof=doctor admin"`
	Password       string `json:"password" binding:"omitempty,min=8"`
}

// UpdateDoctor updates a doctor account.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, id).Error; err != nil {
		utils.NotFound(c, "Doctor not found")
		return
	}

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Role != "" {
		doctor.Role = models.Role(req.Role)
	}
	if req.Password != "" {
		if err := doctor.SetPassword(req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor.Sanitize())
}

// DeleteDoctor removes a doctor account together with its refresh tokens and
// consultation sessions. Doctors with saved consultations or referrals cannot
// be deleted.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	self, ok := currentCaller(c)
	if !ok {
		return
	}
	if self.ID == id {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{&models.Consultation{}, &models.Referral{}} {
			var count int64
			if err := tx.Model(owned).Where("doctor_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &requestError{http.StatusConflict, "Doctor has saved consultations or referrals"}
			}
		}
		if err := tx.Where("doctor_id = ?", id).Delete(&models.ConsultationSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doctor_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&doctor).Error
	})
	if err != nil {
		respondRequestError(c, err, "Failed to delete doctor: ")
		return
	}

	utils.Success(c, "Doctor deleted successfully", nil)
}
