package controller

import (
	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{
		ContentService: contentService,
	}
}

// 图片上传的目标前缀白名单，防止写进任意对象路径
var allowedImagePrefixes = map[string]bool{
	"thumbnails": true,
	"avatars":    true,
	"templates":  true,
}

// UploadImage godoc
// @Summary 上传图片
// @Description 上传课程封面、头像或证书模板素材，prefix 决定存储目录
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图片文件"
// @Param   prefix formData string false "存储目录" default(thumbnails)
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件格式错误"
// @Router /api/uploads/image [post]
func (c *ContentController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少 file 字段")
		return
	}

	prefix := ctx.DefaultPostForm("prefix", "thumbnails")
	if !allowedImagePrefixes[prefix] {
		util.BadRequest(ctx, "不支持的存储目录: "+prefix)
		return
	}

	url, err := c.ContentService.UploadImage(ctx.Request.Context(), file, prefix)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// UploadVideo godoc
// @Summary 上传知识点视频
// @Description 上传视频后返回播放地址、封面和探测出的时长
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=service.VideoUploadResult} "成功"
// @Failure 400 {object} util.Response "文件格式错误"
// @Router /api/uploads/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少 file 字段")
		return
	}

	result, err := c.ContentService.UploadTopicVideo(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}
