package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnova_backend/internal/config"
	"learnova_backend/internal/controller"
	"learnova_backend/internal/middleware"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/service"
	"learnova_backend/pkg/configwatcher"
	"learnova_backend/pkg/database"
	"learnova_backend/pkg/logger"
	"learnova_backend/pkg/monitoring"
	"learnova_backend/pkg/security"
	"learnova_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	category     *repository.CategoryRepository
	course       *repository.CourseRepository
	topic        *repository.TopicRepository
	enrollment   *repository.EnrollmentRepository
	progress     *repository.ProgressRepository
	quiz         *repository.QuizRepository
	certificate  *repository.CertificateRepository
	template     *repository.CertificateTemplateRepository
	notification *repository.NotificationRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	content      *service.ContentService
	course       *service.CourseService
	enrollment   *service.EnrollmentService
	progress     *service.ProgressService
	quiz         *service.QuizService
	certificate  *service.CertificateService
	template     *service.CertificateTemplateService
	notification *service.NotificationService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	topic        *controller.TopicController
	enrollment   *controller.EnrollmentController
	progress     *controller.ProgressController
	quiz         *controller.QuizController
	certificate  *controller.CertificateController
	template     *controller.CertificateTemplateController
	notification *controller.NotificationController
	content      *controller.ContentController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		category:     repository.NewCategoryRepository(db),
		course:       repository.NewCourseRepository(db),
		topic:        repository.NewTopicRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		progress:     repository.NewProgressRepository(db),
		quiz:         repository.NewQuizRepository(db),
		certificate:  repository.NewCertificateRepository(db),
		template:     repository.NewCertificateTemplateRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(s.storage, cfg)
	s.course = service.NewCourseService(repos.course, repos.topic, repos.category)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.notification)
	s.quiz = service.NewQuizService(repos.quiz, repos.topic, repos.course)
	s.notification = service.NewNotificationService(repos.notification)
	s.template = service.NewCertificateTemplateService(repos.template, repos.course)

	var email service.EmailSender
	if cfg.Email.SendgridKey != "" {
		email = service.NewSendgridEmailService(&cfg.Email)
	}

	renderer := service.NewCertificateRenderer(&cfg.Certificate)
	s.certificate = service.NewCertificateService(
		repos.certificate,
		repos.template,
		repos.enrollment,
		repos.course,
		repos.user,
		repos.notification,
		s.storage,
		email,
		renderer,
		rdb,
		cfg,
	)

	// 证书服务先于进度服务构建，进度服务在结课时直接调用签发
	s.progress = service.NewProgressService(repos.progress, repos.enrollment, repos.topic, s.certificate, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		topic:        controller.NewTopicController(s.course),
		enrollment:   controller.NewEnrollmentController(s.enrollment),
		progress:     controller.NewProgressController(s.progress),
		quiz:         controller.NewQuizController(s.quiz),
		certificate:  controller.NewCertificateController(s.certificate),
		template:     controller.NewCertificateTemplateController(s.template),
		notification: controller.NewNotificationController(s.notification),
		content:      controller.NewContentController(s.content),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnova-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm)
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置文件热更新：改动 configs/config.yaml 后通知已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("Config reloaded")
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
