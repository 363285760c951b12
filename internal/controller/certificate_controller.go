package controller

import (
	"errors"
	"fmt"
	"strconv"

	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{
		CertificateService: certificateService,
	}
}

// MyCertificates godoc
// @Summary 我的证书列表
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate} "成功"
// @Router /api/certificates [get]
func (c *CertificateController) MyCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.CertificateService.MyCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// Download godoc
// @Summary 下载证书 PDF
// @Tags 证书
// @Produce  application/pdf
// @Security ApiKeyAuth
// @Param   id path int true "证书ID"
// @Success 200 {file} binary "PDF 文件"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/{id}/download [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	cert, data, err := c.CertificateService.Download(ctx.Request.Context(), claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", cert.CertificateNumber))
	ctx.Data(200, util.MimePDF, data)
}

// Verify godoc
// @Summary 证书公开验证
// @Description 无需登录，按证书编号查验真伪
// @Tags 证书
// @Produce  json
// @Param   number path string true "证书编号"
// @Success 200 {object} util.Response{data=service.VerificationResult} "成功"
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/verify/{number} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	result, err := c.CertificateService.Verify(ctx.Request.Context(), ctx.Param("number"))
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// List godoc
// @Summary 管理端证书列表
// @Tags 证书
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   courseId query int false "课程筛选"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	courseID := util.MustParseUint(ctx.Query("courseId"))

	certs, total, err := c.CertificateService.List(page, limit, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  certs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// swagger:model GenerateCertificateRequest
type GenerateCertificateRequest struct {
	UserID   uint `json:"userId" binding:"required"`
	CourseID uint `json:"courseId" binding:"required"`
}

// Generate godoc
// @Summary 手动补发证书
// @Description 为已结课但自动签发失败的学生补发证书
// @Tags 证书
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateCertificateRequest true "学生与课程"
// @Success 201 {object} util.Response{data=model.Certificate} "签发成功"
// @Failure 409 {object} util.Response "课程未完成或证书已存在"
// @Failure 503 {object} util.Response "渲染或存储服务不可用"
// @Router /api/admin/certificates/generate [post]
func (c *CertificateController) Generate(ctx *gin.Context) {
	var req GenerateCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cert, err := c.CertificateService.GenerateForEnrollment(ctx.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 404, "该学生未报名此课程")
		case errors.Is(err, util.ErrCourseNotCompleted):
			util.Error(ctx, 409, "课程尚未完成，不能签发证书")
		case errors.Is(err, util.ErrCertificateExists):
			util.Error(ctx, 409, "该学生已持有此课程的证书")
		case errors.Is(err, util.ErrRenderingUnavailable), errors.Is(err, util.ErrExternalServiceFailure):
			util.Error(ctx, 503, "证书签发服务暂不可用: "+err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, cert)
}
