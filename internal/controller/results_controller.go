package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	Service *service.ResultsService
}

func NewResultsController(svc *service.ResultsService) *ResultsController {
	return &ResultsController{Service: svc}
}

// @Summary Assessment results roll-up
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id}/summary [get]
func (ctrl *ResultsController) Summary(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	summary, err := ctrl.Service.Summary(c.Request.Context(), claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, summary)
}

// @Summary Per-student results of an assessment
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id}/results [get]
func (ctrl *ResultsController) StudentResults(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	results, err := ctrl.Service.StudentResults(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, results)
}

// @Summary Own skill state for an assessment's mapped skills
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/student/assessments/{id}/skill-impacts [get]
func (ctrl *ResultsController) MySkillImpacts(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	impacts, err := ctrl.Service.SkillImpacts(id, claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, impacts)
}
