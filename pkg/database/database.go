package database

import (
	"fmt"
	"learnova_backend/internal/config"
	"learnova_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过自动迁移，需通过 -migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")

		seedDefaults(db)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Topic{},
		&model.Enrollment{},
		&model.Progress{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.CertificateTemplate{},
		&model.TemplateCourse{},
		&model.Notification{},
	)
}

// seedDefaults 确保存在一个全局默认证书模板和基础课程分类
func seedDefaults(db *gorm.DB) {
	var tplCount int64
	db.Model(&model.CertificateTemplate{}).Count(&tplCount)
	if tplCount == 0 {
		defaultTemplate := &model.CertificateTemplate{
			Name:           "默认模板",
			Title:          "Certificate of Completion",
			Subtitle:       "This is to certify that",
			FooterText:     "Verify this certificate online",
			PrimaryColor:   "#4F46E5",
			SecondaryColor: "#06B6D4",
			FontFamily:     "Helvetica",
			IsActive:       true,
		}
		db.Create(defaultTemplate)
	}

	var catCount int64
	db.Model(&model.Category{}).Count(&catCount)
	if catCount == 0 {
		defaultCategories := []model.Category{
			{Name: "编程开发", Description: "编程语言与软件开发", Order: 1},
			{Name: "数据科学", Description: "数据分析与机器学习", Order: 2},
			{Name: "产品设计", Description: "UI/UX 与产品思维", Order: 3},
			{Name: "语言学习", Description: "外语与沟通能力", Order: 4},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}
}
