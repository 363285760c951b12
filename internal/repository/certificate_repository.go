package repository

import (
	"learnova_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Create 创建证书记录。(user_id, course_id) 的唯一索引是防止重复发证的
// 最终保障，并发下的重复键错误由上层按"已签发"处理。
func (r *CertificateRepository) Create(cert *model.Certificate) error {
	return r.DB.Create(cert).Error
}

func (r *CertificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	return &cert, err
}

func (r *CertificateRepository) FindByNumber(number string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("User").Preload("Course").
		Where("certificate_number = ?", number).
		First(&cert).Error
	return &cert, err
}

func (r *CertificateRepository) FindByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_date DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) List(page, limit int, courseID uint) ([]model.Certificate, int64, error) {
	var certs []model.Certificate
	var total int64

	query := r.DB.Model(&model.Certificate{})
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Preload("Course").
		Order("issued_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&certs).Error
	return certs, total, err
}
