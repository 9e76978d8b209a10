package controller

import (
	"campus_backend/internal/model"
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary Create an assessment (starts as draft)
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateAssessmentRequest true "assessment"
// @Success 201 {object} util.Response
// @Router /api/faculty/assessments [post]
func (ctrl *AssessmentController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	var req service.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assessment, err := ctrl.Service.Create(claims.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, assessment)
}

// @Summary Get one assessment with its questions
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [get]
func (ctrl *AssessmentController) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	assessment, err := ctrl.Service.Get(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Students never see the answer key before evaluation.
	claims := util.GetUserFromContext(c)
	if claims != nil && claims.Role == model.Student {
		for i := range assessment.Questions {
			for j := range assessment.Questions[i].Options {
				assessment.Questions[i].Options[j].IsCorrect = false
			}
		}
	}
	util.Success(c, assessment)
}

// @Summary Update a draft assessment
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Param body body service.UpdateAssessmentRequest true "assessment"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id} [put]
func (ctrl *AssessmentController) Update(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	assessment, err := ctrl.Service.Update(claims.UserID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, assessment)
}

// @Summary Deactivate an assessment
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id} [delete]
func (ctrl *AssessmentController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.Service.Deactivate(claims.UserID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// @Summary List assessments for a batch
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param batchId path int true "batch ID"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/batches/{batchId}/assessments [get]
func (ctrl *AssessmentController) ListByBatch(c *gin.Context) {
	batchID, ok := uintParam(c, "batchId")
	if !ok {
		return
	}
	page, limit := pagination(c)

	assessments, total, err := ctrl.Service.ListByBatch(batchID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// @Summary List own assessments
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments [get]
func (ctrl *AssessmentController) ListMine(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	page, limit := pagination(c)

	assessments, total, err := ctrl.Service.ListByFaculty(claims.UserID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// @Summary Publish a draft assessment
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id}/publish [post]
func (ctrl *AssessmentController) Publish(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	assessment, err := ctrl.Service.Publish(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, assessment)
}

// @Summary Add a question to a draft assessment
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Param body body service.QuestionRequest true "question with options"
// @Success 201 {object} util.Response
// @Router /api/faculty/assessments/{id}/questions [post]
func (ctrl *AssessmentController) AddQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.Service.AddQuestion(claims.UserID, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, question)
}

// @Summary Update a question of a draft assessment
// @Tags assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Param questionId path int true "question ID"
// @Param body body service.QuestionRequest true "question with options"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id}/questions/{questionId} [put]
func (ctrl *AssessmentController) UpdateQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uintParam(c, "questionId")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.Service.UpdateQuestion(claims.UserID, id, questionID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, question)
}

// @Summary Delete a question of a draft assessment
// @Tags assessment
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Param questionId path int true "question ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/assessments/{id}/questions/{questionId} [delete]
func (ctrl *AssessmentController) DeleteQuestion(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uintParam(c, "questionId")
	if !ok {
		return
	}

	if err := ctrl.Service.DeleteQuestion(claims.UserID, id, questionID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
