package util

import "errors"

var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrCourseNotFound         = errors.New("course not found")
	ErrTopicNotFound          = errors.New("topic not found")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrTemplateNotFound       = errors.New("certificate template not found")
	ErrNotEnrolled            = errors.New("user not enrolled in course")
	ErrAlreadyEnrolled        = errors.New("user already enrolled in course")
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrCourseNotCompleted     = errors.New("course not completed")
	ErrCertificateNotFound    = errors.New("certificate not found")
	ErrCertificateExists      = errors.New("certificate already issued")
	ErrRenderingUnavailable   = errors.New("certificate rendering temporarily unavailable")
	ErrExternalServiceFailure = errors.New("external service failure")
)
