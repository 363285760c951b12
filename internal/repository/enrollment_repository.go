package repository

import (
	"learnova_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByCourse(courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	query := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("enrolled_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// FindCompletedWithoutCertificate 找出已结课但没有证书记录的报名，
// 用于补发证书的离线工具
func (r *EnrollmentRepository) FindCompletedWithoutCertificate() ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.
		Joins("LEFT JOIN certificates ON certificates.user_id = enrollments.user_id AND certificates.course_id = enrollments.course_id AND certificates.deleted_at IS NULL").
		Where("enrollments.status = ? AND certificates.id IS NULL", model.Completed).
		Find(&enrollments).Error
	return enrollments, err
}
