package service

import (
	"errors"
	"fmt"

	"campus_backend/internal/model"
	"campus_backend/internal/util"

	"gorm.io/gorm"
)

// GlobalPassThreshold is the minimum source percentage an evaluated attempt
// or graded submission must reach before it contributes to a skill
// aggregate. Scores below it are excluded from both the weighted sum and
// the total weight.
const GlobalPassThreshold = 50.0

// SkillStore is the slice of the skill repository the service depends on.
// Keeping it narrow lets the recompute path run against in-memory fakes.
type SkillStore interface {
	FindSkillByID(id uint) (*model.Skill, error)
	ListSkillsByCourse(courseID uint) ([]model.Skill, error)
	CreateSkill(s *model.Skill) error
	UpdateSkill(s *model.Skill) error
	CreateMapping(m *model.SkillMapping) error
	FindMappingByID(id uint) (*model.SkillMapping, error)
	ListMappings(source model.MappingSource, sourceID uint) ([]model.SkillMapping, error)
	DeleteMapping(id uint) error
	ContributionsFor(studentID, skillID uint) ([]model.SkillContribution, error)
	FindStudentSkill(studentID, skillID uint) (*model.StudentSkill, error)
	SaveStudentSkill(ss *model.StudentSkill) error
	ListStudentSkills(studentID uint) ([]model.StudentSkill, error)
}

// CourseStore resolves courses for skill synchronisation.
type CourseStore interface {
	FindCourseByID(id uint) (*model.Course, error)
}

type SkillService struct {
	skills  SkillStore
	courses CourseStore
}

func NewSkillService(skills SkillStore, courses CourseStore) *SkillService {
	return &SkillService{skills: skills, courses: courses}
}

// AggregateContributions folds evaluated source percentages into a single
// skill percentage. Contributions below GlobalPassThreshold are skipped
// entirely, so a failed attempt neither raises nor dilutes the aggregate.
// Returns 0 when nothing qualifies.
func AggregateContributions(contributions []model.SkillContribution) float64 {
	var weightedSum, totalWeight float64
	for _, c := range contributions {
		if c.Percentage < GlobalPassThreshold {
			continue
		}
		weightedSum += c.Percentage * float64(c.Weight)
		totalWeight += float64(c.Weight)
	}
	if totalWeight == 0 {
		return 0
	}
	return util.Round2(weightedSum / totalWeight)
}

// RecomputeStudentSkill rebuilds the (student, skill) aggregate from source
// rows and upserts the materialized result. The previous value is fully
// replaced, never incremented.
func (s *SkillService) RecomputeStudentSkill(studentID, skillID uint) (*model.StudentSkill, error) {
	contributions, err := s.skills.ContributionsFor(studentID, skillID)
	if err != nil {
		return nil, err
	}

	percentage := AggregateContributions(contributions)

	row, err := s.skills.FindStudentSkill(studentID, skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = &model.StudentSkill{StudentID: studentID, SkillID: skillID}
	} else if err != nil {
		return nil, err
	}

	row.Percentage = percentage
	row.MasteryLevel = model.MasteryLevelFor(percentage)
	row.EvaluationCount = len(contributions)
	if err := s.skills.SaveStudentSkill(row); err != nil {
		return nil, err
	}
	return row, nil
}

// RecomputeForSource refreshes every skill a just-evaluated assessment or
// just-graded assignment maps to, for one student. The evaluator calls this
// synchronously after its transaction commits.
func (s *SkillService) RecomputeForSource(source model.MappingSource, sourceID, studentID uint) error {
	mappings, err := s.skills.ListMappings(source, sourceID)
	if err != nil {
		return err
	}
	for _, m := range mappings {
		if _, err := s.RecomputeStudentSkill(studentID, m.SkillID); err != nil {
			return fmt.Errorf("recompute skill %d for student %d: %w", m.SkillID, studentID, err)
		}
	}
	return nil
}

// SyncCourseSkills reconciles the skill rows of a course with its declared
// skill names: missing names are created, previously deactivated matches are
// revived and rows no longer named are deactivated. Existing IDs are stable
// across syncs so mappings and student aggregates survive renames-by-addition.
func (s *SkillService) SyncCourseSkills(courseID uint) ([]model.Skill, error) {
	course, err := s.courses.FindCourseByID(courseID)
	if err != nil {
		return nil, err
	}

	existing, err := s.skills.ListSkillsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	desired := make(map[string]bool, len(course.SkillNames))
	for _, name := range course.SkillNames {
		desired[name] = true
	}

	byName := make(map[string]*model.Skill, len(existing))
	for i := range existing {
		byName[existing[i].Name] = &existing[i]
	}

	for name := range desired {
		row, ok := byName[name]
		if !ok {
			skill := &model.Skill{CourseID: courseID, Name: name, IsActive: true}
			if err := s.skills.CreateSkill(skill); err != nil {
				return nil, err
			}
			continue
		}
		if !row.IsActive {
			row.IsActive = true
			if err := s.skills.UpdateSkill(row); err != nil {
				return nil, err
			}
		}
	}

	for i := range existing {
		row := &existing[i]
		if row.IsActive && !desired[row.Name] {
			row.IsActive = false
			if err := s.skills.UpdateSkill(row); err != nil {
				return nil, err
			}
		}
	}

	return s.skills.ListSkillsByCourse(courseID)
}

// ListCourseSkills returns only the active skills of a course.
func (s *SkillService) ListCourseSkills(courseID uint) ([]model.Skill, error) {
	all, err := s.skills.ListSkillsByCourse(courseID)
	if err != nil {
		return nil, err
	}
	active := make([]model.Skill, 0, len(all))
	for _, sk := range all {
		if sk.IsActive {
			active = append(active, sk)
		}
	}
	return active, nil
}

// CreateMapping attaches a skill to an assessment or assignment with a
// weight in [1,100].
func (s *SkillService) CreateMapping(source model.MappingSource, sourceID, skillID uint, weight int) (*model.SkillMapping, error) {
	if weight < 1 || weight > 100 {
		return nil, util.NewValidationError("weight percentage must be between 1 and 100", nil)
	}
	skill, err := s.skills.FindSkillByID(skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return nil, util.ErrSkillNotFound
	}

	mapping := &model.SkillMapping{
		SourceType:       source,
		SourceID:         sourceID,
		SkillID:          skillID,
		WeightPercentage: weight,
	}
	if err := s.skills.CreateMapping(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func (s *SkillService) ListMappings(source model.MappingSource, sourceID uint) ([]model.SkillMapping, error) {
	return s.skills.ListMappings(source, sourceID)
}

// DeleteMapping removes a mapping. Existing student aggregates keep their
// last computed value until the next recompute touches them.
func (s *SkillService) DeleteMapping(id uint) error {
	if _, err := s.skills.FindMappingByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSkillNotFound
		}
		return err
	}
	return s.skills.DeleteMapping(id)
}

// StudentSkillProfile returns every materialized skill row for a student.
func (s *SkillService) StudentSkillProfile(studentID uint) ([]model.StudentSkill, error) {
	return s.skills.ListStudentSkills(studentID)
}
