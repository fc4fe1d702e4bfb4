package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"muawin-server/internal/config"
	"muawin-server/internal/middleware"
	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

const refreshCookie = "refresh_token"

// AuthHandler handles doctor authentication.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// LoginRequest represents the request body for doctor login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	DoctorID     uint                   `json:"doctorId"`
	AccessToken  string                 `json:"accessToken"`
	RefreshToken string                 `json:"refreshToken"`
	Doctor       models.DoctorSanitized `json:"doctor"`
}

// Login checks the doctor's credentials and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.Where("username = ?", req.Username).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid credentials")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !doctor.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	accessToken, refreshToken, ok := h.issueTokens(c, &doctor)
	if !ok {
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		DoctorID:     doctor.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Doctor:       doctor.Sanitize(),
	})
}

// issueTokens signs a new token pair, stores the refresh token and sets the
// refresh cookie. It writes the error response itself.
func (h *AuthHandler) issueTokens(c *gin.Context, doctor *models.Doctor) (string, string, bool) {
	accessToken, refreshToken, err := utils.GenerateTokens(doctor, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return "", "", false
	}

	ttl := utils.RefreshTokenTTL(h.Cfg)
	stored := models.RefreshToken{
		DoctorID:  doctor.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := h.DB.Create(&stored).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return "", "", false
	}

	h.setRefreshCookie(c, refreshToken, int(ttl.Seconds()))
	return accessToken, refreshToken, true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(refreshCookie, value, maxAge, "/", "", !h.Cfg.IsDevelopment(), true)
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token and issues a new access token.
// The token is read from the cookie first, then from the body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	claims, err := utils.ValidateToken(token, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var stored models.RefreshToken
	err = h.DB.Where("token = ? AND doctor_id = ? AND is_revoked = ? AND expires_at > ?",
		token, claims.DoctorID, false, time.Now()).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			utils.InternalServerError(c, "Database error checking refresh token: "+err.Error())
		}
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, claims.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Doctor no longer exists")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	stored.IsRevoked = true
	if err := h.DB.Save(&stored).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	accessToken, refreshToken, ok := h.issueTokens(c, &doctor)
	if !ok {
		return
	}

	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// LogoutRequest represents the request body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)
	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshCookie)
	}
	if token == "" {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	result := h.DB.Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": time.Now()})
	if result.Error != nil {
		utils.InternalServerError(c, "Database error during logout: "+result.Error.Error())
		return
	}

	h.setRefreshCookie(c, "", -1)
	utils.Success(c, "Logout successful", nil)
}

// GetProfile returns the authenticated doctor.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	doctorID, ok := middleware.GetDoctorIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Doctor not authenticated")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", doctor.Sanitize())
}

// UpdateProfileRequest represents the request body for updating a profile.
type UpdateProfileRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email" binding:"omitempty,email"`
	Specialization string `json:"specialization"`
	Password       string `json:"password" binding:"omitempty,min=8"`
}

// UpdateProfile updates the authenticated doctor's own details.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	doctorID, ok := middleware.GetDoctorIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Doctor not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, doctorID).Error; err != nil {
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
	if req.Password != "" {
		if err := doctor.SetPassword(req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", doctor.Sanitize())
}
