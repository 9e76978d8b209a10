package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary Start an attempt on an available assessment
// @Tags attempt
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 201 {object} util.Response
// @Router /api/student/assessments/{id}/attempts [post]
func (ctrl *AttemptController) Start(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	assessmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	attempt, err := ctrl.Service.Start(claims.UserID, assessmentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, attempt)
}

// @Summary Get own attempt
// @Tags attempt
// @Produce json
// @Security BearerAuth
// @Param id path int true "attempt ID"
// @Success 200 {object} util.Response
// @Router /api/student/attempts/{id} [get]
func (ctrl *AttemptController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	attempt, err := ctrl.Service.Get(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, attempt)
}

// @Summary Save or replace an answer on an in-progress attempt
// @Tags attempt
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "attempt ID"
// @Param body body service.AnswerRequest true "selection"
// @Success 200 {object} util.Response
// @Router /api/student/attempts/{id}/answers [put]
func (ctrl *AttemptController) SaveAnswer(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	answer, err := ctrl.Service.SaveAnswer(claims.UserID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, answer)
}

// @Summary Submit an attempt for evaluation
// @Tags attempt
// @Produce json
// @Security BearerAuth
// @Param id path int true "attempt ID"
// @Success 200 {object} util.Response
// @Router /api/student/attempts/{id}/submit [post]
func (ctrl *AttemptController) Submit(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	attempt, err := ctrl.Service.Submit(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, attempt)
}

// @Summary List own attempts
// @Tags attempt
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/attempts [get]
func (ctrl *AttemptController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	attempts, err := ctrl.Service.ListByStudent(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, attempts)
}
