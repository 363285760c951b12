package controller

import (
	"errors"

	"learnova_backend/internal/model"
	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateTemplateController struct {
	TemplateService *service.CertificateTemplateService
}

func NewCertificateTemplateController(templateService *service.CertificateTemplateService) *CertificateTemplateController {
	return &CertificateTemplateController{
		TemplateService: templateService,
	}
}

// GetTemplates godoc
// @Summary 证书模板列表
// @Tags 证书模板
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CertificateTemplate} "成功"
// @Router /api/admin/certificate-templates [get]
func (c *CertificateTemplateController) GetTemplates(ctx *gin.Context) {
	templates, err := c.TemplateService.GetTemplates()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, templates)
}

// GetTemplate godoc
// @Summary 证书模板详情
// @Tags 证书模板
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模板ID"
// @Success 200 {object} util.Response{data=model.CertificateTemplate} "成功"
// @Router /api/admin/certificate-templates/{id} [get]
func (c *CertificateTemplateController) GetTemplate(ctx *gin.Context) {
	template, err := c.TemplateService.GetTemplate(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, template)
}

// swagger:model TemplateRequest
type TemplateRequest struct {
	Name           string `json:"name" binding:"required"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	FooterText     string `json:"footerText"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	BackgroundURL  string `json:"backgroundUrl"`
	SignatureURL   string `json:"signatureUrl"`
	SignatureName  string `json:"signatureName"`
}

func (r *TemplateRequest) toModel() *model.CertificateTemplate {
	return &model.CertificateTemplate{
		Name:           r.Name,
		Title:          r.Title,
		Subtitle:       r.Subtitle,
		FooterText:     r.FooterText,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		FontFamily:     r.FontFamily,
		BackgroundURL:  r.BackgroundURL,
		SignatureURL:   r.SignatureURL,
		SignatureName:  r.SignatureName,
	}
}

// CreateTemplate godoc
// @Summary 创建证书模板
// @Tags 证书模板
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TemplateRequest true "模板"
// @Success 201 {object} util.Response{data=model.CertificateTemplate} "创建成功"
// @Router /api/admin/certificate-templates [post]
func (c *CertificateTemplateController) CreateTemplate(ctx *gin.Context) {
	var req TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	template := req.toModel()
	if err := c.TemplateService.CreateTemplate(template); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, template)
}

// UpdateTemplate godoc
// @Summary 更新证书模板
// @Tags 证书模板
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模板ID"
// @Param   body body TemplateRequest true "模板"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/certificate-templates/{id} [put]
func (c *CertificateTemplateController) UpdateTemplate(ctx *gin.Context) {
	var req TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	template := req.toModel()
	template.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.TemplateService.UpdateTemplate(template); err != nil {
		if errors.Is(err, util.ErrTemplateNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// DeleteTemplate godoc
// @Summary 删除证书模板
// @Tags 证书模板
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模板ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/certificate-templates/{id} [delete]
func (c *CertificateTemplateController) DeleteTemplate(ctx *gin.Context) {
	if err := c.TemplateService.DeleteTemplate(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrTemplateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// swagger:model ActivateTemplateRequest
type ActivateTemplateRequest struct {
	CourseIDs []uint `json:"courseIds"`
}

// ActivateTemplate godoc
// @Summary 启用证书模板
// @Description courseIds 为空时设为全局默认模板，否则只对指定课程启用
// @Tags 证书模板
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "模板ID"
// @Param   body body ActivateTemplateRequest true "生效范围"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/certificate-templates/{id}/activate [put]
func (c *CertificateTemplateController) ActivateTemplate(ctx *gin.Context) {
	var req ActivateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.TemplateService.Activate(util.MustParseUint(ctx.Param("id")), req.CourseIDs)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTemplateNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
