package model

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// Assignment is the second kind of evaluable artifact feeding the skill
// ledger. Grading is manual; only the resulting percentage matters here.
type Assignment struct {
	BaseModel
	BatchID    uint      `gorm:"index;not null" json:"batchId"`
	SubjectID  uint      `gorm:"index;not null" json:"subjectId"`
	FacultyID  uint      `gorm:"index;not null" json:"facultyId"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TotalMarks int       `gorm:"not null" json:"totalMarks"`
	DueDate    time.Time `json:"dueDate"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type AssignmentSubmission struct {
	BaseModel
	AssignmentID  uint             `gorm:"uniqueIndex:idx_submission_student_assignment;not null" json:"assignmentId"`
	StudentID     uint             `gorm:"uniqueIndex:idx_submission_student_assignment;index;not null" json:"studentId"`
	SubmittedAt   time.Time        `json:"submittedAt"`
	MarksObtained int              `gorm:"default:0" json:"marksObtained"`
	Percentage    float64          `gorm:"default:0" json:"percentage"`
	Status        SubmissionStatus `gorm:"type:enum('pending','graded');default:'pending';index" json:"status"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
