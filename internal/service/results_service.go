package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resultsSummaryTTL = 5 * time.Minute

// AssessmentSummary is the faculty-facing roll-up of one assessment's
// evaluated attempts.
type AssessmentSummary struct {
	AssessmentID      uint    `json:"assessmentId"`
	Title             string  `json:"title"`
	Status            string  `json:"status"`
	TotalMarks        int     `json:"totalMarks"`
	PassingPercentage float64 `json:"passingPercentage"`
	EnrolledCount     int64   `json:"enrolledCount"`
	AttemptedCount    int     `json:"attemptedCount"`
	NotAttemptedCount int64   `json:"notAttemptedCount"`
	EvaluatedCount    int     `json:"evaluatedCount"`
	PassCount         int     `json:"passCount"`
	FailCount         int     `json:"failCount"`
	AverageMarks      float64 `json:"averageMarks"`
	HighestMarks      int     `json:"highestMarks"`
	LowestMarks       int     `json:"lowestMarks"`
	AveragePercentage float64 `json:"averagePercentage"`
	HighestPercentage float64 `json:"highestPercentage"`
	LowestPercentage  float64 `json:"lowestPercentage"`
}

// StudentResult is one row of the per-student result listing, including the
// student's current aggregate for every skill the assessment maps to.
type StudentResult struct {
	StudentID     uint               `json:"studentId"`
	AttemptID     uint               `json:"attemptId"`
	MarksObtained int                `json:"marksObtained"`
	Percentage    float64            `json:"percentage"`
	Result        model.ResultStatus `json:"result"`
	SubmittedAt   *time.Time         `json:"submittedAt,omitempty"`
	Skills        []SkillImpact      `json:"skills,omitempty"`
}

// SkillImpact pairs a skill with a student's current aggregate for it, for
// the "what did this assessment feed" view.
type SkillImpact struct {
	SkillID         uint               `json:"skillId"`
	SkillName       string             `json:"skillName"`
	Weight          int                `json:"weight"`
	Percentage      float64            `json:"percentage"`
	MasteryLevel    model.MasteryLevel `json:"masteryLevel"`
	EvaluationCount int                `json:"evaluationCount"`
}

type ResultsService struct {
	assessments *repository.AssessmentRepository
	attempts    *repository.AttemptRepository
	academics   *repository.AcademicRepository
	skills      *repository.SkillRepository
	cache       *redis.Client
}

func NewResultsService(assessments *repository.AssessmentRepository, attempts *repository.AttemptRepository, academics *repository.AcademicRepository, skills *repository.SkillRepository, cache *redis.Client) *ResultsService {
	return &ResultsService{
		assessments: assessments,
		attempts:    attempts,
		academics:   academics,
		skills:      skills,
		cache:       cache,
	}
}

func summaryCacheKey(assessmentID uint) string {
	return fmt.Sprintf("results:summary:%d", assessmentID)
}

// Summary computes the assessment roll-up, serving from cache when fresh.
// The cache is best-effort; a Redis failure falls through to the database.
func (s *ResultsService) Summary(ctx context.Context, facultyID, assessmentID uint) (*AssessmentSummary, error) {
	assessment, err := s.ownedBy(facultyID, assessmentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, summaryCacheKey(assessmentID)).Result(); err == nil {
			var cached AssessmentSummary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	attempts, err := s.attempts.ListByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.academics.CountEnrolledStudents(assessment.BatchID)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(assessment, attempts, enrolled)

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey(assessmentID), raw, resultsSummaryTTL).Err(); err != nil {
				logger.Log.Warn("results summary cache write failed",
					zap.Uint("assessmentId", assessmentID), zap.Error(err))
			}
		}
	}
	return summary, nil
}

// BuildSummary folds the attempt rows into the roll-up. Pending attempts
// count as attempted but contribute nothing to the score statistics.
func BuildSummary(a *model.Assessment, attempts []model.Attempt, enrolled int64) *AssessmentSummary {
	summary := &AssessmentSummary{
		AssessmentID:      a.ID,
		Title:             a.Title,
		Status:            string(a.Status),
		TotalMarks:        a.TotalMarks,
		PassingPercentage: a.PassingPercentage,
		EnrolledCount:     enrolled,
		AttemptedCount:    len(attempts),
	}
	if notAttempted := enrolled - int64(len(attempts)); notAttempted > 0 {
		summary.NotAttemptedCount = notAttempted
	}

	var sum float64
	var marksSum int
	for i := range attempts {
		at := &attempts[i]
		if at.Status != model.AttemptEvaluated {
			continue
		}
		summary.EvaluatedCount++
		sum += at.Percentage
		marksSum += at.MarksObtained
		if at.Result(a.PassingPercentage) == model.ResultPass {
			summary.PassCount++
		} else {
			summary.FailCount++
		}
		if summary.EvaluatedCount == 1 || at.Percentage > summary.HighestPercentage {
			summary.HighestPercentage = at.Percentage
		}
		if summary.EvaluatedCount == 1 || at.Percentage < summary.LowestPercentage {
			summary.LowestPercentage = at.Percentage
		}
		if summary.EvaluatedCount == 1 || at.MarksObtained > summary.HighestMarks {
			summary.HighestMarks = at.MarksObtained
		}
		if summary.EvaluatedCount == 1 || at.MarksObtained < summary.LowestMarks {
			summary.LowestMarks = at.MarksObtained
		}
	}
	if summary.EvaluatedCount > 0 {
		summary.AveragePercentage = util.Round2(sum / float64(summary.EvaluatedCount))
		summary.AverageMarks = util.Round2(float64(marksSum) / float64(summary.EvaluatedCount))
	}
	return summary
}

// StudentResults lists every attempt of the assessment as result rows with
// the per-student skill state folded in.
func (s *ResultsService) StudentResults(facultyID, assessmentID uint) ([]StudentResult, error) {
	assessment, err := s.ownedBy(facultyID, assessmentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	refs, err := s.mappedSkillRefs(assessmentID)
	if err != nil {
		return nil, err
	}

	results := make([]StudentResult, 0, len(attempts))
	for i := range attempts {
		at := &attempts[i]
		row := StudentResult{
			StudentID:     at.StudentID,
			AttemptID:     at.ID,
			MarksObtained: at.MarksObtained,
			Percentage:    at.Percentage,
			Result:        at.Result(assessment.PassingPercentage),
			SubmittedAt:   at.SubmittedAt,
		}
		if len(refs) > 0 {
			rows, err := s.skills.StudentSkillsForSkills(at.StudentID, refSkillIDs(refs))
			if err != nil {
				return nil, err
			}
			row.Skills = buildImpacts(refs, rows)
		}
		results = append(results, row)
	}
	return results, nil
}

// SkillImpacts shows, for one student, the current state of every skill the
// assessment maps to.
func (s *ResultsService) SkillImpacts(assessmentID, studentID uint) ([]SkillImpact, error) {
	refs, err := s.mappedSkillRefs(assessmentID)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	rows, err := s.skills.StudentSkillsForSkills(studentID, refSkillIDs(refs))
	if err != nil {
		return nil, err
	}
	return buildImpacts(refs, rows), nil
}

// skillRef is one resolved mapping of the assessment: the skill plus the
// mapping weight, with the name already looked up.
type skillRef struct {
	id     uint
	name   string
	weight int
}

func (s *ResultsService) mappedSkillRefs(assessmentID uint) ([]skillRef, error) {
	mappings, err := s.skills.ListMappings(model.SourceAssessment, assessmentID)
	if err != nil {
		return nil, err
	}
	refs := make([]skillRef, 0, len(mappings))
	for _, m := range mappings {
		skill, err := s.skills.FindSkillByID(m.SkillID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, skillRef{id: m.SkillID, name: skill.Name, weight: m.WeightPercentage})
	}
	return refs, nil
}

func refSkillIDs(refs []skillRef) []uint {
	ids := make([]uint, len(refs))
	for i, ref := range refs {
		ids[i] = ref.id
	}
	return ids
}

// buildImpacts pairs each mapped skill with the student's stored aggregate.
// A skill with no aggregate row yet reads as NOT_ACQUIRED at zero.
func buildImpacts(refs []skillRef, rows []model.StudentSkill) []SkillImpact {
	rowBySkill := make(map[uint]*model.StudentSkill, len(rows))
	for i := range rows {
		rowBySkill[rows[i].SkillID] = &rows[i]
	}

	impacts := make([]SkillImpact, 0, len(refs))
	for _, ref := range refs {
		impact := SkillImpact{
			SkillID:      ref.id,
			SkillName:    ref.name,
			Weight:       ref.weight,
			MasteryLevel: model.MasteryNotAcquired,
		}
		if row, ok := rowBySkill[ref.id]; ok {
			impact.Percentage = row.Percentage
			impact.MasteryLevel = row.MasteryLevel
			impact.EvaluationCount = row.EvaluationCount
		}
		impacts = append(impacts, impact)
	}
	return impacts
}

// InvalidateSummary drops the cached roll-up after an evaluation lands.
func (s *ResultsService) InvalidateSummary(ctx context.Context, assessmentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey(assessmentID)).Err(); err != nil {
		logger.Log.Warn("results summary cache invalidation failed",
			zap.Uint("assessmentId", assessmentID), zap.Error(err))
	}
}

func (s *ResultsService) ownedBy(facultyID, assessmentID uint) (*model.Assessment, error) {
	assessment, err := s.assessments.FindByID(assessmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if assessment.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	return assessment, nil
}
