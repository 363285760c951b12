package repository

import (
	"learnova_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, id).Error
	return &topic, err
}

func (r *TopicRepository) FindByCourse(courseID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order` ASC, id ASC").
		Find(&topics).Error
	return topics, err
}

// CountByCourse 课程总知识点数，是完成百分比的分母
func (r *TopicRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Topic{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *TopicRepository) Update(topic *model.Topic) error {
	return r.DB.Save(topic).Error
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}
