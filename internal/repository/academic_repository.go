package repository

import (
	"campus_backend/internal/model"

	"gorm.io/gorm"
)

// AcademicRepository backs the enrollment and faculty-assignment contracts
// the evaluation engine consumes from the campus record-keeping side.
type AcademicRepository struct {
	DB *gorm.DB
}

func NewAcademicRepository(db *gorm.DB) *AcademicRepository {
	return &AcademicRepository{DB: db}
}

func (r *AcademicRepository) IsStudentEnrolled(studentID, batchID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND batch_id = ? AND is_active = ?", studentID, batchID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *AcademicRepository) IsFacultyAssigned(facultyID, batchID, subjectID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FacultyAssignment{}).
		Where("faculty_id = ? AND batch_id = ? AND subject_id = ? AND is_active = ?", facultyID, batchID, subjectID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *AcademicRepository) ListEnrolledStudents(batchID uint) ([]model.User, error) {
	var students []model.User
	err := r.DB.Model(&model.User{}).
		Joins("JOIN enrollments ON enrollments.student_id = users.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.batch_id = ? AND enrollments.is_active = ?", batchID, true).
		Find(&students).Error
	return students, err
}

func (r *AcademicRepository) CountEnrolledStudents(batchID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("batch_id = ? AND is_active = ?", batchID, true).
		Count(&count).Error
	return count, err
}

func (r *AcademicRepository) FindBatchByID(id uint) (*model.Batch, error) {
	var b model.Batch
	err := r.DB.First(&b, id).Error
	return &b, err
}

func (r *AcademicRepository) FindCourseByID(id uint) (*model.Course, error) {
	var c model.Course
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *AcademicRepository) SaveCourse(c *model.Course) error {
	return r.DB.Save(c).Error
}
