package controller

import (
	"errors"
	"net/http"
	"strconv"

	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps service sentinels onto the response envelope.
// Validation failures keep their structured detail; anything unrecognized is
// logged and reported as a 500.
func handleServiceError(c *gin.Context, err error) {
	if ve, ok := util.AsValidation(err); ok {
		util.ErrorWithData(c, http.StatusBadRequest, ve.Message, ve.Details)
		return
	}

	switch {
	case errors.Is(err, util.ErrAssessmentNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrBankNotFound),
		errors.Is(err, util.ErrSkillNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrNotAssigned):
		util.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrAlreadyAttempted),
		errors.Is(err, util.ErrAssessmentLocked),
		errors.Is(err, util.ErrAttemptClosed),
		errors.Is(err, util.ErrNoAttemptInFlight),
		errors.Is(err, util.ErrNotAvailable),
		errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		util.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func formUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.PostForm(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
