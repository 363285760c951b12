package controller

import (
	"learnova_backend/internal/model"
	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	CourseService *service.CourseService
}

func NewTopicController(courseService *service.CourseService) *TopicController {
	return &TopicController{
		CourseService: courseService,
	}
}

// GetTopics godoc
// @Summary 获取课程的知识点列表
// @Tags 知识点
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Topic} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/topics [get]
func (c *TopicController) GetTopics(ctx *gin.Context) {
	topics, err := c.CourseService.GetTopics(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, topics)
}

// GetTopic godoc
// @Summary 获取知识点详情
// @Tags 知识点
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "知识点ID"
// @Success 200 {object} util.Response{data=model.Topic} "成功"
// @Router /api/topics/{id} [get]
func (c *TopicController) GetTopic(ctx *gin.Context) {
	topic, err := c.CourseService.GetTopicByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, topic)
}

// swagger:model TopicRequest
type TopicRequest struct {
	CourseID      uint    `json:"courseId" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Content       string  `json:"content"`
	VideoURL      string  `json:"videoUrl"`
	VideoDuration float64 `json:"videoDuration"`
	Order         int     `json:"order"`
}

// CreateTopic godoc
// @Summary 创建知识点
// @Tags 知识点
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TopicRequest true "知识点"
// @Success 201 {object} util.Response{data=model.Topic} "创建成功"
// @Router /api/instructor/topics [post]
func (c *TopicController) CreateTopic(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic := &model.Topic{
		CourseID:      req.CourseID,
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		VideoURL:      req.VideoURL,
		VideoDuration: req.VideoDuration,
		Order:         req.Order,
	}

	if err := c.CourseService.CreateTopic(topic, claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// UpdateTopic godoc
// @Summary 更新知识点
// @Tags 知识点
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "知识点ID"
// @Param   body body TopicRequest true "知识点"
// @Success 200 {object} util.Response "成功"
// @Router /api/instructor/topics/{id} [put]
func (c *TopicController) UpdateTopic(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic := &model.Topic{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		VideoURL:      req.VideoURL,
		VideoDuration: req.VideoDuration,
		Order:         req.Order,
	}
	topic.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.UpdateTopic(topic, claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteTopic godoc
// @Summary 删除知识点
// @Tags 知识点
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "知识点ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/instructor/topics/{id} [delete]
func (c *TopicController) DeleteTopic(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteTopic(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
