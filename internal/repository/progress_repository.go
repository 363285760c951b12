package repository

import (
	"learnova_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(progress *model.Progress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) Save(progress *model.Progress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) FindByUserCourseTopic(userID, courseID, topicID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND course_id = ? AND topic_id = ?", userID, courseID, topicID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) ([]model.Progress, error) {
	var progresses []model.Progress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("topic_id ASC").
		Find(&progresses).Error
	return progresses, err
}

// CountCompleted 已完成知识点数，是完成百分比的分子
func (r *ProgressRepository) CountCompleted(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&count).Error
	return count, err
}
