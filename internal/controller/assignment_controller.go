package controller

import (
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

// @Summary Create an assignment
// @Tags assignment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateAssignmentRequest true "assignment"
// @Success 201 {object} util.Response
// @Router /api/faculty/assignments [post]
func (ctrl *AssignmentController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assignment, err := ctrl.Service.Create(claims.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, assignment)
}

// @Summary List assignments for a batch
// @Tags assignment
// @Produce json
// @Security BearerAuth
// @Param batchId path int true "batch ID"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/batches/{batchId}/assignments [get]
func (ctrl *AssignmentController) ListByBatch(c *gin.Context) {
	batchID, ok := uintParam(c, "batchId")
	if !ok {
		return
	}
	page, limit := pagination(c)

	assignments, total, err := ctrl.Service.ListByBatch(batchID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: assignments, Total: total, Page: page, Limit: limit})
}

// @Summary Hand in an assignment
// @Tags assignment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment ID"
// @Success 201 {object} util.Response
// @Router /api/student/assignments/{id}/submissions [post]
func (ctrl *AssignmentController) Submit(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	submission, err := ctrl.Service.Submit(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, submission)
}

// @Summary Grade a submission
// @Tags assignment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "submission ID"
// @Param body body service.GradeSubmissionRequest true "marks"
// @Success 200 {object} util.Response
// @Router /api/faculty/submissions/{id}/grade [post]
func (ctrl *AssignmentController) Grade(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	submission, err := ctrl.Service.Grade(claims.UserID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, submission)
}

// @Summary List submissions of an assignment
// @Tags assignment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assignments/{id}/submissions [get]
func (ctrl *AssignmentController) ListSubmissions(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	submissions, err := ctrl.Service.ListSubmissions(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, submissions)
}
