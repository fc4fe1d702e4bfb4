package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

// SpecialistHandler serves the specialist directory.
type SpecialistHandler struct {
	DB *gorm.DB
}

// NewSpecialistHandler creates a new SpecialistHandler.
func NewSpecialistHandler(db *gorm.DB) *SpecialistHandler {
	return &SpecialistHandler{DB: db}
}

// GetSpecialists lists specialists, optionally filtered by ?category=.
func (h *SpecialistHandler) GetSpecialists(c *gin.Context) {
	q := h.DB.Order("category, name")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	specialists := []models.Specialist{}
	if err := q.Find(&specialists).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch specialists: "+err.Error())
		return
	}
	utils.Success(c, "Specialists fetched successfully", specialists)
}

// GetCategories lists the distinct specialist categories.
func (h *SpecialistHandler) GetCategories(c *gin.Context) {
	categories := []string{}
	if err := h.DB.Model(&models.Specialist{}).Distinct().Order("category").Pluck("category", &categories).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch categories: "+err.Error())
		return
	}
	utils.Success(c, "Categories fetched successfully", categories)
}

// GetSpecialist fetches one specialist.
func (h *SpecialistHandler) GetSpecialist(c *gin.Context) {
	specialist, ok := h.load(c)
	if !ok {
		return
	}
	utils.Success(c, "Specialist fetched successfully", specialist)
}

func (h *SpecialistHandler) load(c *gin.Context) (*models.Specialist, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	var specialist models.Specialist
	if err := h.DB.First(&specialist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Specialist not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &specialist, true
}

// SpecialistRequest represents the request body for creating or updating a specialist.
type SpecialistRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Hospital     string `json:"hospital" binding:"required"`
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
}

func (r SpecialistRequest) apply(s *models.Specialist) {
	s.Name = r.Name
	s.Category = r.Category
	s.Hospital = r.Hospital
	s.Contact = r.Contact
	s.Availability = r.Availability
}

// CreateSpecialist adds a specialist (admin).
func (h *SpecialistHandler) CreateSpecialist(c *gin.Context) {
	var req SpecialistRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var specialist models.Specialist
	req.apply(&specialist)
	if err := h.DB.Create(&specialist).Error; err != nil {
		utils.InternalServerError(c, "Failed to create specialist: "+err.Error())
		return
	}
	utils.Created(c, "Specialist created successfully", specialist)
}

// UpdateSpecialist replaces a specialist's details (admin).
func (h *SpecialistHandler) UpdateSpecialist(c *gin.Context) {
	var req SpecialistRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	specialist, ok := h.load(c)
	if !ok {
		return
	}

	req.apply(specialist)
	if err := h.DB.Save(specialist).Error; err != nil {
		utils.InternalServerError(c, "Failed to update specialist: "+err.Error())
		return
	}
	utils.Success(c, "Specialist updated successfully", specialist)
}

// DeleteSpecialist removes a specialist (admin). Specialists with referrals
// cannot be removed.
func (h *SpecialistHandler) DeleteSpecialist(c *gin.Context) {
	specialist, ok := h.load(c)
	if !ok {
		return
	}

	var referrals int64
	if err := h.DB.Model(&models.Referral{}).Where("specialist_id = ?", specialist.ID).Count(&referrals).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if referrals > 0 {
		utils.Conflict(c, "Specialist has referrals and cannot be deleted")
		return
	}

	if err := h.DB.Delete(specialist).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete specialist: "+err.Error())
		return
	}
	utils.Success(c, "Specialist deleted successfully", nil)
}
