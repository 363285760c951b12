// 手动补发证书脚本
//
// 扫描所有已结课但没有证书的报名记录并逐条签发。
// 适用于渲染或存储服务故障恢复后的批量补发。
//
// 用法: go run scripts/backfill_certificates.go

package main

import (
	"context"
	"log"

	"learnova_backend/internal/config"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/service"
	"learnova_backend/pkg/database"
	"learnova_backend/pkg/logger"
)

func main() {
	// 与主程序走同一条配置解析路径，保证下划线键名正确映射
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	certRepo := repository.NewCertificateRepository(db)
	templateRepo := repository.NewCertificateTemplateRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	storage := service.NewStorageService(cfg)
	renderer := service.NewCertificateRenderer(&cfg.Certificate)

	var email service.EmailSender
	if cfg.Email.SendgridKey != "" {
		email = service.NewSendgridEmailService(&cfg.Email)
	}

	certService := service.NewCertificateService(
		certRepo, templateRepo, enrollmentRepo, courseRepo, userRepo, notificationRepo,
		storage, email, renderer, nil, cfg,
	)

	enrollments, err := enrollmentRepo.FindCompletedWithoutCertificate()
	if err != nil {
		log.Fatalf("查询待补发名单失败: %v", err)
	}

	log.Printf("共 %d 条已结课报名缺少证书，开始补发...", len(enrollments))

	ctx := context.Background()
	issued, failed := 0, 0
	for _, e := range enrollments {
		cert, err := certService.IssueCertificate(ctx, e.UserID, e.CourseID)
		if err != nil {
			failed++
			log.Printf("补发失败 user=%d course=%d: %v", e.UserID, e.CourseID, err)
			continue
		}
		issued++
		log.Printf("补发成功 user=%d course=%d 证书编号=%s", e.UserID, e.CourseID, cert.CertificateNumber)
	}

	log.Printf("完成！成功 %d 条，失败 %d 条", issued, failed)
}
