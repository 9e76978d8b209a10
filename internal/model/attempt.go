package model

import (
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptEvaluated  AttemptStatus = "evaluated"
)

// ResultStatus is the derived pass/fail view of an attempt.
type ResultStatus string

const (
	ResultPending ResultStatus = "PENDING"
	ResultPass    ResultStatus = "PASS"
	ResultFail    ResultStatus = "FAIL"
)

// Attempt is one student's single run through an assessment. The
// (student, assessment) pair is unique at the storage layer so a concurrent
// second start fails on the constraint rather than creating a duplicate.
type Attempt struct {
	BaseModel
	AssessmentID  uint          `gorm:"uniqueIndex:idx_attempt_student_assessment;not null" json:"assessmentId"`
	StudentID     uint          `gorm:"uniqueIndex:idx_attempt_student_assessment;index;not null" json:"studentId"`
	StartedAt     time.Time     `gorm:"not null" json:"startedAt"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty"`
	MarksObtained int           `gorm:"default:0" json:"marksObtained"`
	Percentage    float64       `gorm:"default:0" json:"percentage"`
	Status        AttemptStatus `gorm:"type:enum('in_progress','submitted','evaluated');default:'in_progress';index" json:"status"`

	Answers []Answer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Result derives the reporting status against the assessment's passing
// percentage.
func (at *Attempt) Result(passingPercentage float64) ResultStatus {
	if at.Status != AttemptEvaluated {
		return ResultPending
	}
	if at.Percentage >= passingPercentage {
		return ResultPass
	}
	return ResultFail
}

// Answer records one question's response inside an attempt. SelectedOptionID
// nil means unanswered. Correctness and marks are populated only during
// evaluation.
type Answer struct {
	BaseModel
	AttemptID        uint  `gorm:"uniqueIndex:idx_answer_attempt_question;not null" json:"attemptId"`
	QuestionID       uint  `gorm:"uniqueIndex:idx_answer_attempt_question;index;not null" json:"questionId"`
	SelectedOptionID *uint `json:"selectedOptionId,omitempty"`
	IsCorrect        bool  `gorm:"default:false" json:"isCorrect"`
	MarksAwarded     int   `gorm:"default:0" json:"marksAwarded"`
}

func (Answer) TableName() string {
	return "answers"
}
