package service

import (
	"errors"
	"fmt"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus_backend/pkg/logger"
)

// CreateAssessmentRequest carries the faculty-supplied fields of a new
// assessment. Status always starts at draft regardless of input.
type CreateAssessmentRequest struct {
	BatchID           uint      `json:"batchId" binding:"required"`
	SubjectID         uint      `json:"subjectId" binding:"required"`
	Title             string    `json:"title" binding:"required"`
	Description       string    `json:"description"`
	TotalMarks        int       `json:"totalMarks" binding:"required,gt=0"`
	DurationMinutes   int       `json:"durationMinutes" binding:"required,gt=0"`
	PassingPercentage float64   `json:"passingPercentage" binding:"required,gt=0,lte=100"`
	StartTime         time.Time `json:"startTime" binding:"required"`
	EndTime           time.Time `json:"endTime" binding:"required"`
}

// UpdateAssessmentRequest mirrors the create payload; every field is
// replaced in one shot while the assessment is still a draft.
type UpdateAssessmentRequest = CreateAssessmentRequest

// QuestionRequest is one question with its four options. Exactly one option
// must be marked correct before publish succeeds.
type QuestionRequest struct {
	Text    string          `json:"text" binding:"required"`
	Marks   int             `json:"marks" binding:"required,gt=0"`
	Order   int             `json:"order"`
	Options []OptionRequest `json:"options" binding:"required,len=4,dive"`
}

type OptionRequest struct {
	Label     string `json:"label" binding:"required,len=1"`
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type AssessmentService struct {
	assessments *repository.AssessmentRepository
	academics   *repository.AcademicRepository
}

func NewAssessmentService(assessments *repository.AssessmentRepository, academics *repository.AcademicRepository) *AssessmentService {
	return &AssessmentService{assessments: assessments, academics: academics}
}

func (s *AssessmentService) Create(facultyID uint, req *CreateAssessmentRequest) (*model.Assessment, error) {
	assigned, err := s.academics.IsFacultyAssigned(facultyID, req.BatchID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotAssigned
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, util.NewValidationError("end time must be after start time", nil)
	}

	assessment := &model.Assessment{
		BatchID:           req.BatchID,
		SubjectID:         req.SubjectID,
		FacultyID:         facultyID,
		Title:             req.Title,
		Description:       req.Description,
		TotalMarks:        req.TotalMarks,
		DurationMinutes:   req.DurationMinutes,
		PassingPercentage: req.PassingPercentage,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            model.AssessmentDraft,
		IsActive:          true,
	}
	if err := s.assessments.Create(assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// Get resolves lazy time transitions before returning, so callers always see
// the status implied by the clock even between sweep runs.
func (s *AssessmentService) Get(id uint) (*model.Assessment, error) {
	assessment, err := s.assessments.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.resolveStatus(assessment, time.Now()); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *AssessmentService) Update(facultyID, id uint, req *UpdateAssessmentRequest) (*model.Assessment, error) {
	assessment, err := s.ownedBy(facultyID, id)
	if err != nil {
		return nil, err
	}
	if !assessment.Editable() {
		return nil, util.ErrAssessmentLocked
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, util.NewValidationError("end time must be after start time", nil)
	}

	assessment.Title = req.Title
	assessment.Description = req.Description
	assessment.TotalMarks = req.TotalMarks
	assessment.DurationMinutes = req.DurationMinutes
	assessment.PassingPercentage = req.PassingPercentage
	assessment.StartTime = req.StartTime
	assessment.EndTime = req.EndTime
	if err := s.assessments.Update(assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (s *AssessmentService) Deactivate(facultyID, id uint) error {
	if _, err := s.ownedBy(facultyID, id); err != nil {
		return err
	}
	return s.assessments.Deactivate(id)
}

func (s *AssessmentService) ListByBatch(batchID uint, page, limit int) ([]model.Assessment, int64, error) {
	return s.assessments.ListByBatch(batchID, page, limit)
}

func (s *AssessmentService) ListByFaculty(facultyID uint, page, limit int) ([]model.Assessment, int64, error) {
	return s.assessments.ListByFaculty(facultyID, page, limit)
}

// Publish moves a draft to scheduled after validating the full question set.
// Validation is all-or-nothing: any failure leaves the assessment in draft
// with every question untouched.
func (s *AssessmentService) Publish(facultyID, id uint) (*model.Assessment, error) {
	assessment, err := s.ownedBy(facultyID, id)
	if err != nil {
		return nil, err
	}
	if assessment.Status != model.AssessmentDraft {
		return nil, util.ErrAssessmentLocked
	}

	questions, err := s.assessments.ListActiveQuestions(id)
	if err != nil {
		return nil, err
	}
	if problems := ValidateForPublish(assessment, questions); len(problems) > 0 {
		return nil, util.NewValidationError("assessment is not publishable", problems)
	}

	assessment.Status = model.AssessmentScheduled
	if time.Now().After(assessment.StartTime) {
		assessment.Status = model.AssessmentActive
	}
	if err := s.assessments.Update(assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ValidateForPublish returns every structural problem that blocks
// publishing, not just the first.
func ValidateForPublish(a *model.Assessment, questions []model.Question) []string {
	var problems []string
	if len(questions) == 0 {
		problems = append(problems, "assessment has no active questions")
	}
	sum := 0
	for i := range questions {
		q := &questions[i]
		sum += q.Marks
		if q.CorrectOption() == nil {
			problems = append(problems, fmt.Sprintf("question %d must have exactly one correct option", q.ID))
		}
		if len(q.Options) != len(model.OptionLabels) {
			problems = append(problems, fmt.Sprintf("question %d must have %d options", q.ID, len(model.OptionLabels)))
		}
	}
	if len(questions) > 0 && sum != a.TotalMarks {
		problems = append(problems, fmt.Sprintf("question marks sum to %d, total marks is %d", sum, a.TotalMarks))
	}
	if !a.EndTime.After(a.StartTime) {
		problems = append(problems, "end time must be after start time")
	}
	return problems
}

// NextStatus computes the status the clock implies, or "" when no
// transition is due. Transitions only ever move forward.
func NextStatus(a *model.Assessment, now time.Time) model.AssessmentStatus {
	switch a.Status {
	case model.AssessmentScheduled:
		if now.After(a.EndTime) {
			return model.AssessmentCompleted
		}
		if !now.Before(a.StartTime) {
			return model.AssessmentActive
		}
	case model.AssessmentActive:
		if now.After(a.EndTime) {
			return model.AssessmentCompleted
		}
	}
	return ""
}

// resolveStatus applies any due transition in place and persists it. The
// status column update is idempotent, so concurrent readers racing the sweep
// converge on the same value.
func (s *AssessmentService) resolveStatus(a *model.Assessment, now time.Time) error {
	next := NextStatus(a, now)
	if next == "" {
		return nil
	}
	if err := s.assessments.UpdateStatus(a.ID, next); err != nil {
		return err
	}
	a.Status = next
	return nil
}

// SweepTransitions advances every assessment whose stored status lags the
// clock. Run periodically so completed assessments do not wait for a read.
func (s *AssessmentService) SweepTransitions() {
	due, err := s.assessments.ListDueForTransition()
	if err != nil {
		logger.Log.Error("assessment transition sweep failed", zap.Error(err))
		return
	}
	now := time.Now()
	for i := range due {
		if err := s.resolveStatus(&due[i], now); err != nil {
			logger.Log.Error("assessment transition failed",
				zap.Uint("assessmentId", due[i].ID), zap.Error(err))
		}
	}
}

// Question management. All of it is draft-only.

func (s *AssessmentService) AddQuestion(facultyID, assessmentID uint, req *QuestionRequest) (*model.Question, error) {
	assessment, err := s.ownedBy(facultyID, assessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.Editable() {
		return nil, util.ErrAssessmentLocked
	}
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	question := &model.Question{
		AssessmentID: assessmentID,
		Text:         req.Text,
		Marks:        req.Marks,
		Order:        req.Order,
		IsActive:     true,
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, model.Option{
			Label:     o.Label,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}
	if err := s.assessments.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *AssessmentService) UpdateQuestion(facultyID, assessmentID, questionID uint, req *QuestionRequest) (*model.Question, error) {
	assessment, err := s.ownedBy(facultyID, assessmentID)
	if err != nil {
		return nil, err
	}
	if !assessment.Editable() {
		return nil, util.ErrAssessmentLocked
	}
	question, err := s.assessments.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && question.AssessmentID != assessmentID) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	question.Text = req.Text
	question.Marks = req.Marks
	question.Order = req.Order
	if err := s.assessments.UpdateQuestion(question); err != nil {
		return nil, err
	}

	options := make([]model.Option, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, model.Option{Label: o.Label, Text: o.Text, IsCorrect: o.IsCorrect})
	}
	if err := s.assessments.ReplaceOptions(questionID, options); err != nil {
		return nil, err
	}
	return s.assessments.FindQuestionByID(questionID)
}

func (s *AssessmentService) DeleteQuestion(facultyID, assessmentID, questionID uint) error {
	assessment, err := s.ownedBy(facultyID, assessmentID)
	if err != nil {
		return err
	}
	if !assessment.Editable() {
		return util.ErrAssessmentLocked
	}
	question, err := s.assessments.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && question.AssessmentID != assessmentID) {
		return util.ErrAssessmentNotFound
	}
	if err != nil {
		return err
	}
	return s.assessments.DeleteQuestion(questionID)
}

func validateQuestionRequest(req *QuestionRequest) error {
	seen := make(map[string]bool, len(req.Options))
	correct := 0
	for _, o := range req.Options {
		if seen[o.Label] {
			return util.NewValidationError(fmt.Sprintf("duplicate option label %s", o.Label), nil)
		}
		seen[o.Label] = true
		if o.IsCorrect {
			correct++
		}
	}
	for _, label := range model.OptionLabels {
		if !seen[label] {
			return util.NewValidationError(fmt.Sprintf("missing option %s", label), nil)
		}
	}
	if correct != 1 {
		return util.NewValidationError("exactly one option must be marked correct", nil)
	}
	return nil
}

func (s *AssessmentService) ownedBy(facultyID, id uint) (*model.Assessment, error) {
	assessment, err := s.assessments.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assessment.IsActive {
		return nil, util.ErrAssessmentNotFound
	}
	if assessment.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	return assessment, nil
}
