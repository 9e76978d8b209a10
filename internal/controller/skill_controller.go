package controller

import (
	"campus_backend/internal/model"
	"campus_backend/internal/service"
	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	Service *service.SkillService
}

func NewSkillController(svc *service.SkillService) *SkillController {
	return &SkillController{Service: svc}
}

// MappingRequest binds one skill mapping creation.
type MappingRequest struct {
	SourceType model.MappingSource `json:"sourceType" binding:"required,oneof=assessment assignment"`
	SourceID   uint                `json:"sourceId" binding:"required"`
	SkillID    uint                `json:"skillId" binding:"required"`
	Weight     int                 `json:"weight" binding:"required"`
}

// @Summary Reconcile a course's skills with its declared skill names
// @Tags skill
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/courses/{courseId}/skills/sync [post]
func (ctrl *SkillController) SyncCourse(c *gin.Context) {
	courseID, ok := uintParam(c, "courseId")
	if !ok {
		return
	}

	skills, err := ctrl.Service.SyncCourseSkills(courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, skills)
}

// @Summary List a course's active skills
// @Tags skill
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/skills [get]
func (ctrl *SkillController) ListCourseSkills(c *gin.Context) {
	courseID, ok := uintParam(c, "courseId")
	if !ok {
		return
	}

	skills, err := ctrl.Service.ListCourseSkills(courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, skills)
}

// @Summary Map a skill to an assessment or assignment
// @Tags skill
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MappingRequest true "mapping"
// @Success 201 {object} util.Response
// @Router /api/faculty/skill-mappings [post]
func (ctrl *SkillController) CreateMapping(c *gin.Context) {
	var req MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	mapping, err := ctrl.Service.CreateMapping(req.SourceType, req.SourceID, req.SkillID, req.Weight)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, mapping)
}

// @Summary List the skill mappings of an assessment or assignment
// @Tags skill
// @Produce json
// @Security BearerAuth
// @Param sourceType query string true "assessment or assignment"
// @Param sourceId query int true "source ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/skill-mappings [get]
func (ctrl *SkillController) ListMappings(c *gin.Context) {
	sourceType := model.MappingSource(c.Query("sourceType"))
	if sourceType != model.SourceAssessment && sourceType != model.SourceAssignment {
		util.BadRequest(c, "sourceType must be assessment or assignment")
		return
	}
	sourceID, ok := queryUint(c, "sourceId")
	if !ok {
		util.BadRequest(c, "invalid sourceId")
		return
	}

	mappings, err := ctrl.Service.ListMappings(sourceType, sourceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, mappings)
}

// @Summary Delete a skill mapping
// @Tags skill
// @Produce json
// @Security BearerAuth
// @Param id path int true "mapping ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/skill-mappings/{id} [delete]
func (ctrl *SkillController) DeleteMapping(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.Service.DeleteMapping(id); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// @Summary Own skill mastery profile
// @Tags skill
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/skills [get]
func (ctrl *SkillController) MyProfile(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	rows, err := ctrl.Service.StudentSkillProfile(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, rows)
}
