package controller

import (
	"errors"
	"strconv"

	"learnova_backend/internal/model"
	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{
		CourseService: courseService,
	}
}

// GetCategories godoc
// @Summary 获取课程分类列表
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Category} "成功"
// @Router /api/categories [get]
func (c *CourseController) GetCategories(ctx *gin.Context) {
	categories, err := c.CourseService.GetCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// swagger:model CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// CreateCategory godoc
// @Summary 创建分类
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CategoryRequest true "分类"
// @Success 201 {object} util.Response{data=model.Category} "创建成功"
// @Router /api/admin/categories [post]
func (c *CourseController) CreateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
	}
	if err := c.CourseService.CreateCategory(category); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary 更新分类
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Param   body body CategoryRequest true "分类"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/categories/{id} [put]
func (c *CourseController) UpdateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
	}
	category.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.UpdateCategory(category); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "分类ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/categories/{id} [delete]
func (c *CourseController) DeleteCategory(ctx *gin.Context) {
	if err := c.CourseService.DeleteCategory(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetCourses godoc
// @Summary 获取课程列表
// @Description 学生端只返回已发布课程，支持分类筛选和分页
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   categoryId query int false "分类ID"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	categoryID := util.MustParseUint(ctx.Query("categoryId"))

	// 只有讲师和管理员能看到未发布课程
	publishedOnly := true
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Role != model.Student {
		publishedOnly = false
	}

	courses, total, err := c.CourseService.GetCourses(page, limit, categoryID, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetCourse godoc
// @Summary 获取课程详情
// @Description 返回课程及其按序号排列的知识点列表
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourseByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// swagger:model CourseRequest
type CourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CategoryID  uint    `json:"categoryId"`
	Level       string  `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	Published   bool    `json:"published"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CourseRequest true "课程"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		InstructorID: claims.UserID,
		Level:        model.CourseLevel(req.Level),
		Thumbnail:    req.Thumbnail,
		Duration:     req.Duration,
		Price:        req.Price,
		Published:    req.Published,
	}
	if course.Level == "" {
		course.Level = model.Beginner
	}

	if err := c.CourseService.CreateCourse(course); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body CourseRequest true "课程"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权操作他人课程"
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Level:       model.CourseLevel(req.Level),
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Price:       req.Price,
		Published:   req.Published,
	}
	course.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.UpdateCourse(course, claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteCourse(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetMyCourses godoc
// @Summary 获取讲师自己的课程
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/instructor/courses [get]
func (c *CourseController) GetMyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.GetInstructorCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

func respondCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrTopicNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
