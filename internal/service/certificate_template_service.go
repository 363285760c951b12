package service

import (
	"errors"
	"regexp"

	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"

	"gorm.io/gorm"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CertificateTemplateService 管理证书模板及其启用关系
type CertificateTemplateService struct {
	TemplateRepo *repository.CertificateTemplateRepository
	CourseRepo   *repository.CourseRepository
}

func NewCertificateTemplateService(
	templateRepo *repository.CertificateTemplateRepository,
	courseRepo *repository.CourseRepository,
) *CertificateTemplateService {
	return &CertificateTemplateService{
		TemplateRepo: templateRepo,
		CourseRepo:   courseRepo,
	}
}

func (s *CertificateTemplateService) GetTemplates() ([]model.CertificateTemplate, error) {
	return s.TemplateRepo.FindAll()
}

func (s *CertificateTemplateService) GetTemplate(id uint) (*model.CertificateTemplate, error) {
	template, err := s.TemplateRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrTemplateNotFound
	}
	return template, nil
}

func (s *CertificateTemplateService) CreateTemplate(template *model.CertificateTemplate) error {
	if err := validateTemplateColors(template); err != nil {
		return err
	}
	return s.TemplateRepo.Create(template)
}

func (s *CertificateTemplateService) UpdateTemplate(template *model.CertificateTemplate) error {
	existing, err := s.TemplateRepo.FindByID(template.ID)
	if err != nil {
		return util.ErrTemplateNotFound
	}
	if err := validateTemplateColors(template); err != nil {
		return err
	}

	existing.Name = template.Name
	existing.Title = template.Title
	existing.Subtitle = template.Subtitle
	existing.FooterText = template.FooterText
	existing.PrimaryColor = template.PrimaryColor
	existing.SecondaryColor = template.SecondaryColor
	existing.FontFamily = template.FontFamily
	existing.BackgroundURL = template.BackgroundURL
	existing.SignatureURL = template.SignatureURL
	existing.SignatureName = template.SignatureName
	return s.TemplateRepo.Update(existing)
}

func (s *CertificateTemplateService) DeleteTemplate(id uint) error {
	if _, err := s.TemplateRepo.FindByID(id); err != nil {
		return util.ErrTemplateNotFound
	}
	return s.TemplateRepo.Delete(id)
}

// Activate 启用模板。courseIDs 为空表示设为全局默认模板，
// 否则只对给定课程启用，并顶掉这些课程原来的启用模板
func (s *CertificateTemplateService) Activate(templateID uint, courseIDs []uint) error {
	if _, err := s.TemplateRepo.FindByID(templateID); err != nil {
		return util.ErrTemplateNotFound
	}

	if len(courseIDs) == 0 {
		return s.TemplateRepo.ActivateGlobal(templateID)
	}

	for _, courseID := range courseIDs {
		if _, err := s.CourseRepo.FindByID(courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCourseNotFound
			}
			return err
		}
	}
	return s.TemplateRepo.ActivateForCourses(templateID, courseIDs)
}

func validateTemplateColors(template *model.CertificateTemplate) error {
	if template.PrimaryColor != "" && !hexColorPattern.MatchString(template.PrimaryColor) {
		return errors.New("主色必须是 #RRGGBB 格式")
	}
	if template.SecondaryColor != "" && !hexColorPattern.MatchString(template.SecondaryColor) {
		return errors.New("辅色必须是 #RRGGBB 格式")
	}
	return nil
}
