package service

import (
	"context"
	"errors"
	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"
	"learnova_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	TopicRepo      *repository.TopicRepository
	Certificates   *CertificateService
	DB             *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	topicRepo *repository.TopicRepository,
	certificates *CertificateService,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		TopicRepo:      topicRepo,
		Certificates:   certificates,
		DB:             db,
	}
}

type ProgressUpdateRequest struct {
	CourseID  uint `json:"courseId" binding:"required"`
	TopicID   uint `json:"topicId" binding:"required"`
	Completed bool `json:"completed"`
	TimeSpent int  `json:"timeSpent"`
}

// UpdateTopicProgress 记录一次知识点学习进度并重算课程完成百分比。
// 首次达到 100% 时触发证书签发；签发环节的任何失败都只记日志，
// 进度更新请求本身始终按成功返回。
func (s *ProgressService) UpdateTopicProgress(ctx context.Context, userID uint, req ProgressUpdateRequest) (*model.Progress, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	topic, err := s.TopicRepo.FindByID(req.TopicID)
	if err != nil || topic.CourseID != req.CourseID {
		return nil, util.ErrTopicNotFound
	}

	progress, err := s.ProgressRepo.FindByUserCourseTopic(userID, req.CourseID, req.TopicID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = &model.Progress{
			UserID:   userID,
			CourseID: req.CourseID,
			TopicID:  req.TopicID,
		}
	} else if err != nil {
		return nil, err
	}

	// CompletedAt 只在首次完成时落下，取消完成不清除，保留"曾经完成过"的痕迹
	if req.Completed && !progress.Completed {
		now := time.Now()
		progress.CompletedAt = &now
	}
	progress.Completed = req.Completed
	progress.TimeSpent = req.TimeSpent

	if progress.ID == 0 {
		err = s.ProgressRepo.Create(progress)
	} else {
		err = s.ProgressRepo.Save(progress)
	}
	if err != nil {
		return nil, err
	}

	// 无论本次调用是否改变了什么，都重算一次报名百分比
	justCompleted, err := s.recomputeEnrollment(enrollment.ID)
	if err != nil {
		return nil, err
	}

	if justCompleted {
		if _, err := s.Certificates.IssueCertificate(ctx, userID, req.CourseID); err != nil {
			logger.Log.Error("certificate issuance failed after course completion",
				zap.Uint("userId", userID),
				zap.Uint("courseId", req.CourseID),
				zap.Error(err))
		}
	}

	return progress, nil
}

// recomputeEnrollment 在一个事务里做"读计数-算百分比-写回"，
// 返回该报名是否在本次重算中首次到达结课状态
func (s *ProgressService) recomputeEnrollment(enrollmentID uint) (bool, error) {
	justCompleted := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return err
		}

		var totalTopics int64
		if err := tx.Model(&model.Topic{}).
			Where("course_id = ?", enrollment.CourseID).
			Count(&totalTopics).Error; err != nil {
			return err
		}
		if totalTopics == 0 {
			return nil
		}

		var completedTopics int64
		if err := tx.Model(&model.Progress{}).
			Where("user_id = ? AND course_id = ? AND completed = ?",
				enrollment.UserID, enrollment.CourseID, true).
			Count(&completedTopics).Error; err != nil {
			return err
		}

		percentage := float64(completedTopics) / float64(totalTopics) * 100
		enrollment.ProgressPercentage = percentage

		// 结课状态单向：一旦 completed 不再回退
		if enrollment.Status != model.Completed {
			if percentage >= 100 {
				enrollment.Status = model.Completed
				now := time.Now()
				enrollment.CompletedAt = &now
				justCompleted = true
			} else if percentage > 0 {
				enrollment.Status = model.InProgress
			}
		}

		return tx.Save(&enrollment).Error
	})

	return justCompleted, err
}

// CourseProgress 课程维度的进度概览
type CourseProgress struct {
	Enrollment *model.Enrollment `json:"enrollment"`
	Topics     []model.Progress  `json:"topics"`
}

func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	progresses, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseProgress{
		Enrollment: enrollment,
		Topics:     progresses,
	}, nil
}
