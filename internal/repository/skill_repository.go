package repository

import (
	"campus_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) FindSkillByID(id uint) (*model.Skill, error) {
	var s model.Skill
	err := r.DB.First(&s, id).Error
	return &s, err
}

// ListSkillsByCourse returns every skill row for the course, active or not;
// the sync operation needs both.
func (r *SkillRepository) ListSkillsByCourse(courseID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("course_id = ?", courseID).Order("name asc").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) CreateSkill(s *model.Skill) error {
	return r.DB.Create(s).Error
}

func (r *SkillRepository) UpdateSkill(s *model.Skill) error {
	return r.DB.Save(s).Error
}

func (r *SkillRepository) CreateMapping(m *model.SkillMapping) error {
	return r.DB.Create(m).Error
}

func (r *SkillRepository) FindMappingByID(id uint) (*model.SkillMapping, error) {
	var m model.SkillMapping
	err := r.DB.First(&m, id).Error
	return &m, err
}

func (r *SkillRepository) ListMappings(source model.MappingSource, sourceID uint) ([]model.SkillMapping, error) {
	var ms []model.SkillMapping
	err := r.DB.Where("source_type = ? AND source_id = ?", source, sourceID).Find(&ms).Error
	return ms, err
}

// DeleteMapping hard-deletes the row so the (source, skill) slot in
// idx_mapping_source_skill frees up for a later re-mapping.
func (r *SkillRepository) DeleteMapping(id uint) error {
	return r.DB.Unscoped().Delete(&model.SkillMapping{}, id).Error
}

// ContributionsFor re-derives the aggregation inputs for one (student,
// skill) pair from source rows: every evaluated attempt whose assessment
// maps to the skill, plus every graded assignment submission likewise.
func (r *SkillRepository) ContributionsFor(studentID, skillID uint) ([]model.SkillContribution, error) {
	var fromAttempts []model.SkillContribution
	err := r.DB.Model(&model.Attempt{}).
		Select("skill_mappings.source_type as source_type, skill_mappings.source_id as source_id, attempts.percentage as percentage, skill_mappings.weight_percentage as weight").
		Joins("JOIN skill_mappings ON skill_mappings.source_type = ? AND skill_mappings.source_id = attempts.assessment_id AND skill_mappings.deleted_at IS NULL", model.SourceAssessment).
		Where("attempts.student_id = ? AND attempts.status = ? AND skill_mappings.skill_id = ?", studentID, model.AttemptEvaluated, skillID).
		Scan(&fromAttempts).Error
	if err != nil {
		return nil, err
	}

	var fromSubmissions []model.SkillContribution
	err = r.DB.Model(&model.AssignmentSubmission{}).
		Select("skill_mappings.source_type as source_type, skill_mappings.source_id as source_id, assignment_submissions.percentage as percentage, skill_mappings.weight_percentage as weight").
		Joins("JOIN skill_mappings ON skill_mappings.source_type = ? AND skill_mappings.source_id = assignment_submissions.assignment_id AND skill_mappings.deleted_at IS NULL", model.SourceAssignment).
		Where("assignment_submissions.student_id = ? AND assignment_submissions.status = ? AND skill_mappings.skill_id = ?", studentID, model.SubmissionGraded, skillID).
		Scan(&fromSubmissions).Error
	if err != nil {
		return nil, err
	}

	return append(fromAttempts, fromSubmissions...), nil
}

func (r *SkillRepository) FindStudentSkill(studentID, skillID uint) (*model.StudentSkill, error) {
	var ss model.StudentSkill
	err := r.DB.Where("student_id = ? AND skill_id = ?", studentID, skillID).First(&ss).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &ss, err
}

func (r *SkillRepository) SaveStudentSkill(ss *model.StudentSkill) error {
	return r.DB.Save(ss).Error
}

func (r *SkillRepository) ListStudentSkills(studentID uint) ([]model.StudentSkill, error) {
	var rows []model.StudentSkill
	err := r.DB.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

// StudentSkillsForSkills fetches the current rows for a set of skills in one
// query; the results reporter uses it for snapshot reads.
func (r *SkillRepository) StudentSkillsForSkills(studentID uint, skillIDs []uint) ([]model.StudentSkill, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	var rows []model.StudentSkill
	err := r.DB.Where("student_id = ? AND skill_id IN ?", studentID, skillIDs).Find(&rows).Error
	return rows, err
}
