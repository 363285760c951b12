package app

import (
	"learnova_backend/docs"
	"learnova_backend/internal/config"
	"learnova_backend/internal/middleware"
	"learnova_backend/internal/model"
	"learnova_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}

	// 3. 管理员路由
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 证书公开验证，任何人可按编号查验
		public.GET("/certificates/verify/:number", c.certificate.Verify)

		// 课程目录允许游客浏览，登录用户可以看到更多
		public.GET("/categories", c.course.GetCategories)
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.GetCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/courses/:id/topics", c.topic.GetTopics)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.PUT("/profile/password", c.user.ChangePassword)

	// 报名
	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.MyEnrollments)
	rg.DELETE("/enrollments/:courseId", c.enrollment.Drop)

	// 学习进度
	rg.POST("/progress/topics", c.progress.UpdateTopicProgress)
	rg.GET("/progress/courses/:courseId", c.progress.GetCourseProgress)

	// 知识点与测验
	rg.GET("/topics/:id", c.topic.GetTopic)
	rg.GET("/topics/:id/quizzes", c.quiz.GetTopicQuizzes)
	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
	rg.GET("/quizzes/:id/attempts", c.quiz.GetAttempts)

	// 证书
	rg.GET("/certificates", c.certificate.MyCertificates)
	rg.GET("/certificates/:id/download", c.certificate.Download)

	// 通知
	rg.GET("/notifications", c.notification.GetNotifications)
	rg.GET("/notifications/unread-count", c.notification.UnreadCount)
	rg.PUT("/notifications/:id/read", c.notification.MarkRead)
	rg.PUT("/notifications/read-all", c.notification.MarkAllRead)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.GET("/courses", c.course.GetMyCourses)
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.GET("/courses/:id/enrollments", c.enrollment.CourseEnrollments)

		instructor.POST("/topics", c.topic.CreateTopic)
		instructor.PUT("/topics/:id", c.topic.UpdateTopic)
		instructor.DELETE("/topics/:id", c.topic.DeleteTopic)

		instructor.POST("/quizzes", c.quiz.CreateQuiz)
		instructor.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
	}

	uploads := rg.Group("/uploads")
	uploads.Use(middleware.RoleMiddleware(model.Instructor))
	{
		uploads.POST("/image", c.content.UploadImage)
		uploads.POST("/video", c.content.UploadVideo)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		// 用户管理
		admin.GET("/users", c.user.GetUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		// 分类管理
		admin.POST("/categories", c.course.CreateCategory)
		admin.PUT("/categories/:id", c.course.UpdateCategory)
		admin.DELETE("/categories/:id", c.course.DeleteCategory)

		// 证书模板
		admin.GET("/certificate-templates", c.template.GetTemplates)
		admin.GET("/certificate-templates/:id", c.template.GetTemplate)
		admin.POST("/certificate-templates", c.template.CreateTemplate)
		admin.PUT("/certificate-templates/:id", c.template.UpdateTemplate)
		admin.DELETE("/certificate-templates/:id", c.template.DeleteTemplate)
		admin.PUT("/certificate-templates/:id/activate", c.template.ActivateTemplate)

		// 证书管理与手动补发
		admin.GET("/certificates", c.certificate.List)
		admin.POST("/certificates/generate", c.certificate.Generate)
	}
}
