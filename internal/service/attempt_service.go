package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/logger"
	"campus_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnswerRequest records or replaces the student's selection for one
// question. A nil option clears the selection.
type AnswerRequest struct {
	QuestionID       uint  `json:"questionId" binding:"required"`
	SelectedOptionID *uint `json:"selectedOptionId"`
}

type AttemptService struct {
	attempts    *repository.AttemptRepository
	assessments *repository.AssessmentRepository
	academics   *repository.AcademicRepository
	skills      *SkillService
	results     *ResultsService
}

func NewAttemptService(attempts *repository.AttemptRepository, assessments *repository.AssessmentRepository, academics *repository.AcademicRepository, skills *SkillService, results *ResultsService) *AttemptService {
	return &AttemptService{
		attempts:    attempts,
		assessments: assessments,
		academics:   academics,
		skills:      skills,
		results:     results,
	}
}

// AttemptDeadline is the instant an in-progress attempt closes: the earlier
// of the assessment window end and the per-attempt duration running out.
func AttemptDeadline(a *model.Assessment, startedAt time.Time) time.Time {
	byDuration := startedAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
	if a.EndTime.Before(byDuration) {
		return a.EndTime
	}
	return byDuration
}

// Start opens an attempt for an enrolled student. The storage-layer unique
// index makes a concurrent second start lose cleanly; an existing attempt in
// any state maps to ErrAlreadyAttempted.
func (s *AttemptService) Start(studentID, assessmentID uint) (*model.Attempt, error) {
	assessment, err := s.availableAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.academics.IsStudentEnrolled(studentID, assessment.BatchID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	attempt := &model.Attempt{
		AssessmentID: assessmentID,
		StudentID:    studentID,
		StartedAt:    time.Now(),
		Status:       model.AttemptInProgress,
	}
	if err := s.attempts.Create(attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttempt) {
			return nil, util.ErrAlreadyAttempted
		}
		return nil, err
	}
	return attempt, nil
}

// Get returns the attempt after settling any overdue expiry, so a student
// polling past the deadline sees the evaluated result rather than a stale
// in-progress row.
func (s *AttemptService) Get(studentID, attemptID uint) (*model.Attempt, error) {
	attempt, err := s.ownedBy(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	return s.settleIfExpired(attempt)
}

// SaveAnswer upserts the selection for one question of an in-progress
// attempt. A save landing after the deadline finalizes the attempt instead
// and reports it closed.
func (s *AttemptService) SaveAnswer(studentID, attemptID uint, req *AnswerRequest) (*model.Answer, error) {
	attempt, err := s.ownedBy(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptClosed
	}

	assessment, err := s.assessments.FindByID(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}
	deadline := AttemptDeadline(assessment, attempt.StartedAt)
	if time.Now().After(deadline) {
		if _, err := s.finalize(attempt, assessment, deadline); err != nil {
			return nil, err
		}
		return nil, util.ErrAttemptClosed
	}

	question, err := s.assessments.FindQuestionByID(req.QuestionID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (question.AssessmentID != attempt.AssessmentID || !question.IsActive)) {
		return nil, util.NewValidationError("question does not belong to this assessment", nil)
	}
	if err != nil {
		return nil, err
	}
	if req.SelectedOptionID != nil {
		valid := false
		for _, o := range question.Options {
			if o.ID == *req.SelectedOptionID {
				valid = true
				break
			}
		}
		if !valid {
			return nil, util.NewValidationError("selected option does not belong to this question", nil)
		}
	}

	answer, err := s.attempts.FindAnswer(attemptID, req.QuestionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		answer = &model.Answer{AttemptID: attemptID, QuestionID: req.QuestionID}
	} else if err != nil {
		return nil, err
	}
	answer.SelectedOptionID = req.SelectedOptionID
	if err := s.attempts.SaveAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Submit finalizes an in-progress attempt at the student's request and
// returns the evaluated result.
func (s *AttemptService) Submit(studentID, attemptID uint) (*model.Attempt, error) {
	attempt, err := s.ownedBy(studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptClosed
	}
	assessment, err := s.assessments.FindByID(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}

	submittedAt := time.Now()
	if deadline := AttemptDeadline(assessment, attempt.StartedAt); submittedAt.After(deadline) {
		submittedAt = deadline
	}
	return s.finalize(attempt, assessment, submittedAt)
}

// ListByStudent returns the student's attempts, settling any in-progress
// row whose deadline passed since the last expiry sweep.
func (s *AttemptService) ListByStudent(studentID uint) ([]model.Attempt, error) {
	attempts, err := s.attempts.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		if attempts[i].Status != model.AttemptInProgress {
			continue
		}
		settled, err := s.settleIfExpired(&attempts[i])
		if err != nil {
			return nil, err
		}
		attempts[i] = *settled
	}
	return attempts, nil
}

// GradeAnswers scores one attempt's answer set against the active question
// list. Every question gets a row; unanswered or wrong selections score
// zero. Returns the graded rows and the marks total.
func GradeAnswers(questions []model.Question, answers []model.Answer) ([]model.Answer, int) {
	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	graded := make([]model.Answer, 0, len(questions))
	marks := 0
	for i := range questions {
		q := &questions[i]
		answer, ok := byQuestion[q.ID]
		if !ok {
			answer = model.Answer{QuestionID: q.ID}
		}
		answer.IsCorrect = false
		answer.MarksAwarded = 0
		if correct := q.CorrectOption(); correct != nil && answer.SelectedOptionID != nil && *answer.SelectedOptionID == correct.ID {
			answer.IsCorrect = true
			answer.MarksAwarded = q.Marks
			marks += q.Marks
		}
		graded = append(graded, answer)
	}
	return graded, marks
}

// ApplyEvaluation scores the attempt in place against the active question
// set and returns the graded answer rows. Deterministic for a given input,
// so retries converge on the same stored values.
func ApplyEvaluation(attempt *model.Attempt, assessment *model.Assessment, questions []model.Question, submittedAt time.Time) []model.Answer {
	graded, marks := GradeAnswers(questions, attempt.Answers)
	for i := range graded {
		graded[i].AttemptID = attempt.ID
	}

	attempt.MarksObtained = marks
	attempt.Percentage = 0
	if assessment.TotalMarks > 0 {
		attempt.Percentage = util.Round2(float64(marks) / float64(assessment.TotalMarks) * 100)
	}
	attempt.Status = model.AttemptEvaluated
	attempt.SubmittedAt = &submittedAt
	return graded
}

// finalize evaluates the attempt in one transaction and then refreshes the
// affected skill aggregates. Re-finalizing an already evaluated attempt is a
// no-op returning the stored result. A recompute failure surfaces as an
// error even though the evaluation has already committed; retrying the
// operation re-runs only the recompute.
func (s *AttemptService) finalize(attempt *model.Attempt, assessment *model.Assessment, submittedAt time.Time) (*model.Attempt, error) {
	if attempt.Status == model.AttemptEvaluated {
		return attempt, nil
	}

	questions, err := s.assessments.ListActiveQuestions(assessment.ID)
	if err != nil {
		return nil, err
	}

	graded := ApplyEvaluation(attempt, assessment, questions, submittedAt)

	if err := s.attempts.EvaluateInTx(attempt, graded); err != nil {
		return nil, err
	}
	attempt.Answers = graded

	monitoring.EvaluationCounter.WithLabelValues(string(attempt.Result(assessment.PassingPercentage))).Inc()
	s.results.InvalidateSummary(context.Background(), assessment.ID)

	if err := s.skills.RecomputeForSource(model.SourceAssessment, assessment.ID, attempt.StudentID); err != nil {
		return nil, fmt.Errorf("attempt %d evaluated but skill recompute failed: %w", attempt.ID, err)
	}
	return attempt, nil
}

// ExpireOverdue finalizes every in-progress attempt whose window closed.
// Run periodically alongside the assessment status sweep.
func (s *AttemptService) ExpireOverdue() {
	overdue, err := s.attempts.ListExpiredInProgress(time.Now())
	if err != nil {
		logger.Log.Error("attempt expiry sweep failed", zap.Error(err))
		return
	}
	for i := range overdue {
		attempt := &overdue[i]
		assessment, err := s.assessments.FindByID(attempt.AssessmentID)
		if err != nil {
			logger.Log.Error("attempt expiry lookup failed",
				zap.Uint("attemptId", attempt.ID), zap.Error(err))
			continue
		}
		if _, err := s.finalize(attempt, assessment, AttemptDeadline(assessment, attempt.StartedAt)); err != nil {
			logger.Log.Error("attempt expiry finalize failed",
				zap.Uint("attemptId", attempt.ID), zap.Error(err))
		}
	}
}

func (s *AttemptService) settleIfExpired(attempt *model.Attempt) (*model.Attempt, error) {
	if attempt.Status != model.AttemptInProgress {
		return attempt, nil
	}
	assessment, err := s.assessments.FindByID(attempt.AssessmentID)
	if err != nil {
		return nil, err
	}
	deadline := AttemptDeadline(assessment, attempt.StartedAt)
	if time.Now().After(deadline) {
		// Callers may hold a row without its answers; reload before grading.
		full, err := s.attempts.FindByID(attempt.ID)
		if err != nil {
			return nil, err
		}
		return s.finalize(full, assessment, deadline)
	}
	return attempt, nil
}

func (s *AttemptService) availableAssessment(assessmentID uint) (*model.Assessment, error) {
	assessment, err := s.assessments.FindByID(assessmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assessment.IsActive {
		return nil, util.ErrAssessmentNotFound
	}
	if !assessment.AvailableAt(time.Now()) {
		return nil, util.ErrNotAvailable
	}
	return assessment, nil
}

func (s *AttemptService) ownedBy(studentID, attemptID uint) (*model.Attempt, error) {
	attempt, err := s.attempts.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}
