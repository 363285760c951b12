package repository

import (
	"learnova_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateTemplateRepository struct {
	DB *gorm.DB
}

func NewCertificateTemplateRepository(db *gorm.DB) *CertificateTemplateRepository {
	return &CertificateTemplateRepository{DB: db}
}

func (r *CertificateTemplateRepository) Create(template *model.CertificateTemplate) error {
	return r.DB.Create(template).Error
}

func (r *CertificateTemplateRepository) FindByID(id uint) (*model.CertificateTemplate, error) {
	var template model.CertificateTemplate
	err := r.DB.Preload("Courses").First(&template, id).Error
	return &template, err
}

func (r *CertificateTemplateRepository) FindAll() ([]model.CertificateTemplate, error) {
	var templates []model.CertificateTemplate
	err := r.DB.Preload("Courses").Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (r *CertificateTemplateRepository) Update(template *model.CertificateTemplate) error {
	return r.DB.Save(template).Error
}

func (r *CertificateTemplateRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&model.TemplateCourse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CertificateTemplate{}, id).Error
	})
}

// FindGlobalActive 全局默认模板
func (r *CertificateTemplateRepository) FindGlobalActive() (*model.CertificateTemplate, error) {
	var template model.CertificateTemplate
	err := r.DB.Where("is_active = ?", true).First(&template).Error
	return &template, err
}

// FindActiveForCourse 课程级激活的模板，优先于全局默认
func (r *CertificateTemplateRepository) FindActiveForCourse(courseID uint) (*model.CertificateTemplate, error) {
	var tc model.TemplateCourse
	err := r.DB.Preload("Template").
		Where("course_id = ? AND is_active = ?", courseID, true).
		First(&tc).Error
	if err != nil {
		return nil, err
	}
	if tc.Template == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return tc.Template, nil
}

// ActivateGlobal 将指定模板设为全局默认，先取消其他模板的默认标记
func (r *CertificateTemplateRepository) ActivateGlobal(templateID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CertificateTemplate{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.CertificateTemplate{}).
			Where("id = ?", templateID).
			Update("is_active", true).Error
	})
}

// ActivateForCourses 将模板激活到一组课程上，
// 先取消这些课程已有的激活关联，再建立或激活新关联
func (r *CertificateTemplateRepository) ActivateForCourses(templateID uint, courseIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TemplateCourse{}).
			Where("course_id IN ? AND is_active = ?", courseIDs, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		for _, courseID := range courseIDs {
			var tc model.TemplateCourse
			err := tx.Where("template_id = ? AND course_id = ?", templateID, courseID).First(&tc).Error
			if err == gorm.ErrRecordNotFound {
				tc = model.TemplateCourse{
					TemplateID: templateID,
					CourseID:   courseID,
					IsActive:   true,
				}
				if err := tx.Create(&tc).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			tc.IsActive = true
			if err := tx.Save(&tc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
