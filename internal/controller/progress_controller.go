package controller

import (
	"errors"

	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
	}
}

// UpdateTopicProgress godoc
// @Summary 上报知识点学习进度
// @Description 标记知识点完成/未完成并重算课程进度，课程首次达到 100% 时自动签发证书
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProgressUpdateRequest true "进度"
// @Success 200 {object} util.Response{data=model.Progress} "成功"
// @Failure 403 {object} util.Response "未报名该课程"
// @Failure 404 {object} util.Response "知识点不存在"
// @Router /api/progress/topics [post]
func (c *ProgressController) UpdateTopicProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProgressUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.UpdateTopicProgress(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, "未报名该课程")
		case errors.Is(err, util.ErrTopicNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// GetCourseProgress godoc
// @Summary 查看课程学习进度
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress} "成功"
// @Router /api/progress/courses/{courseId} [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetCourseProgress(claims.UserID, util.MustParseUint(ctx.Param("courseId")))
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Error(ctx, 403, "未报名该课程")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}
