package service

import (
	"errors"
	"fmt"
	"time"

	"campus_backend/internal/model"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"

	"gorm.io/gorm"
)

type CreateAssignmentRequest struct {
	BatchID    uint      `json:"batchId" binding:"required"`
	SubjectID  uint      `json:"subjectId" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	TotalMarks int       `json:"totalMarks" binding:"required,gt=0"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
}

type GradeSubmissionRequest struct {
	MarksObtained int `json:"marksObtained" binding:"gte=0"`
}

type AssignmentService struct {
	assignments *repository.AssignmentRepository
	academics   *repository.AcademicRepository
	skills      *SkillService
}

func NewAssignmentService(assignments *repository.AssignmentRepository, academics *repository.AcademicRepository, skills *SkillService) *AssignmentService {
	return &AssignmentService{assignments: assignments, academics: academics, skills: skills}
}

func (s *AssignmentService) Create(facultyID uint, req *CreateAssignmentRequest) (*model.Assignment, error) {
	assigned, err := s.academics.IsFacultyAssigned(facultyID, req.BatchID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotAssigned
	}

	assignment := &model.Assignment{
		BatchID:    req.BatchID,
		SubjectID:  req.SubjectID,
		FacultyID:  facultyID,
		Title:      req.Title,
		TotalMarks: req.TotalMarks,
		DueDate:    req.DueDate,
		IsActive:   true,
	}
	if err := s.assignments.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByBatch(batchID uint, page, limit int) ([]model.Assignment, int64, error) {
	return s.assignments.ListByBatch(batchID, page, limit)
}

// Submit records a student's hand-in. One submission per (student,
// assignment), enforced at the storage layer.
func (s *AssignmentService) Submit(studentID, assignmentID uint) (*model.AssignmentSubmission, error) {
	assignment, err := s.assignments.FindByID(assignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive {
		return nil, util.ErrSubmissionNotFound
	}
	enrolled, err := s.academics.IsStudentEnrolled(studentID, assignment.BatchID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	submission := &model.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		SubmittedAt:  time.Now(),
		Status:       model.SubmissionPending,
	}
	if err := s.assignments.CreateSubmission(submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttempt) {
			return nil, util.ErrAlreadyAttempted
		}
		return nil, err
	}
	return submission, nil
}

// Grade records manual marks, derives the percentage and refreshes the
// skills the assignment maps to for that student.
func (s *AssignmentService) Grade(facultyID, submissionID uint, req *GradeSubmissionRequest) (*model.AssignmentSubmission, error) {
	submission, err := s.assignments.FindSubmissionByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	if req.MarksObtained > assignment.TotalMarks {
		return nil, util.NewValidationError("marks exceed assignment total", nil)
	}

	submission.MarksObtained = req.MarksObtained
	submission.Percentage = 0
	if assignment.TotalMarks > 0 {
		submission.Percentage = util.Round2(float64(req.MarksObtained) / float64(assignment.TotalMarks) * 100)
	}
	submission.Status = model.SubmissionGraded
	if err := s.assignments.UpdateSubmission(submission); err != nil {
		return nil, err
	}

	if err := s.skills.RecomputeForSource(model.SourceAssignment, assignment.ID, submission.StudentID); err != nil {
		return nil, fmt.Errorf("submission %d graded but skill recompute failed: %w", submission.ID, err)
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(facultyID, assignmentID uint) ([]model.AssignmentSubmission, error) {
	assignment, err := s.assignments.FindByID(assignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if assignment.FacultyID != facultyID {
		return nil, util.ErrPermissionDenied
	}
	return s.assignments.ListSubmissions(assignmentID)
}
