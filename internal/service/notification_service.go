package service

import (
	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
	}
}

func (s *NotificationService) GetNotifications(userID uint, page, limit int) ([]model.Notification, int64, error) {
	return s.NotificationRepo.FindByUser(userID, page, limit)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotificationRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.NotificationRepo.MarkRead(userID, notificationID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotificationRepo.MarkAllRead(userID)
}
