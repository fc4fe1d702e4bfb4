package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muawin-server/internal/llm"
	"muawin-server/internal/middleware"
	"muawin-server/internal/models"
	"muawin-server/internal/utils"
)

// caller is the authenticated doctor making the request.
type caller struct {
	ID   uint
	Role models.Role
}

func (c caller) isAdmin() bool { return c.Role == models.RoleAdmin }

// owns reports whether the caller may act on a record created by doctorID.
func (c caller) owns(doctorID uint) bool { return c.isAdmin() || c.ID == doctorID }

func currentCaller(c *gin.Context) (caller, bool) {
	id, ok := middleware.GetDoctorIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Doctor not authenticated")
		return caller{}, false
	}
	role, _ := middleware.GetDoctorRoleFromContext(c)
	return caller{ID: id, Role: role}, true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		utils.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// respondLLMError maps language model failures onto HTTP statuses.
func respondLLMError(c *gin.Context, logger *zap.Logger, err error) {
	var vendorErr *llm.VendorError
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		utils.ServiceUnavailable(c, err.Error())
	case errors.As(err, &vendorErr):
		logger.Warn("language model request failed", zap.Error(err))
		utils.BadGateway(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
