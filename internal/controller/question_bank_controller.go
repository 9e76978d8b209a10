package controller

import (
	"io"
	"path/filepath"
	"strings"

	"campus_backend/internal/config"
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionBankController struct {
	Service *service.QuestionBankService
}

func NewQuestionBankController(svc *service.QuestionBankService) *QuestionBankController {
	return &QuestionBankController{Service: svc}
}

// @Summary Bulk-import questions from a plain-text file
// @Tags question-bank
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "question file (.txt)"
// @Param name formData string true "bank name"
// @Param subjectId formData int false "subject ID"
// @Param description formData string false "bank description"
// @Success 201 {object} util.Response
// @Router /api/faculty/question-banks/import [post]
func (ctrl *QuestionBankController) ImportText(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	cfg := c.MustGet("config").(*config.Config)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "missing question file")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".txt") {
		util.BadRequest(c, "only .txt files are accepted")
		return
	}
	if fileHeader.Size > cfg.Import.MaxUploadBytes {
		util.BadRequest(c, "file exceeds the maximum upload size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()
	text, err := io.ReadAll(io.LimitReader(file, cfg.Import.MaxUploadBytes+1))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	if int64(len(text)) > cfg.Import.MaxUploadBytes {
		util.BadRequest(c, "file exceeds the maximum upload size")
		return
	}

	req := service.ImportBankRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if req.Name == "" {
		util.BadRequest(c, "bank name is required")
		return
	}
	if id, ok := formUint(c, "subjectId"); ok {
		req.SubjectID = id
	}

	bank, err := ctrl.Service.ImportText(claims.UserID, &req, string(text))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, bank)
}

// @Summary List own question banks
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/faculty/question-banks [get]
func (ctrl *QuestionBankController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	page, limit := pagination(c)

	banks, total, err := ctrl.Service.List(claims.UserID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: banks, Total: total, Page: page, Limit: limit})
}

// @Summary Get one question bank with its questions
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param id path int true "bank ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/question-banks/{id} [get]
func (ctrl *QuestionBankController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	bank, err := ctrl.Service.Get(claims.UserID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, bank)
}

// @Summary Deactivate a question bank
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param id path int true "bank ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/question-banks/{id} [delete]
func (ctrl *QuestionBankController) Delete(c *gin.Context) {
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

// @Summary Copy bank questions into an assessment
// @Tags question-bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assessment ID"
// @Param body body service.ImportFromBankRequest true "bank selection"
// @Success 201 {object} util.Response
// @Router /api/faculty/assessments/{id}/import-from-bank [post]
func (ctrl *QuestionBankController) ImportFromBank(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	assessmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req service.ImportFromBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	questions, err := ctrl.Service.ImportFromBank(claims.UserID, assessmentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, questions)
}
