package service

import (
	"errors"
	"time"

	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo   *repository.EnrollmentRepository
	CourseRepo       *repository.CourseRepository
	NotificationRepo *repository.NotificationRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	notificationRepo *repository.NotificationRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo:   enrollmentRepo,
		CourseRepo:       courseRepo,
		NotificationRepo: notificationRepo,
	}
}

// Enroll 学生报名课程。已退课的报名会被重新激活而不是新建
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	existing, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		if existing.Status == model.Dropped {
			existing.Status = model.Enrolled
			existing.EnrolledAt = time.Now()
			if err := s.EnrollmentRepo.Update(existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.Enrolled,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}

	// 报名成功的站内通知，失败不影响主流程
	_ = s.NotificationRepo.Create(&model.Notification{
		UserID:  userID,
		Type:    model.NotifyEnrollment,
		Title:   "报名成功",
		Message: "你已成功报名课程《" + course.Title + "》",
	})

	return enrollment, nil
}

// Drop 退课。已结课的报名不允许退
func (s *EnrollmentService) Drop(userID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return util.ErrEnrollmentNotFound
	}
	if enrollment.Status == model.Completed {
		return util.ErrPermissionDenied
	}
	enrollment.Status = model.Dropped
	return s.EnrollmentRepo.Update(enrollment)
}

func (s *EnrollmentService) MyEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(userID)
}

// CourseEnrollments 讲师/管理端查看某课程的报名情况
func (s *EnrollmentService) CourseEnrollments(courseID uint, page, limit int, operatorID uint, operatorRole model.UserRole) ([]model.Enrollment, int64, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, 0, util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.FindByCourse(courseID, page, limit)
}
