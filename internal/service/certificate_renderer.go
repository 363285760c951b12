package service

import (
	"bytes"
	"fmt"
	"learnova_backend/internal/config"
	"learnova_backend/internal/model"
	"learnova_backend/internal/util"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// BackgroundClass 背景亮度三分类，决定证书文字用色
type BackgroundClass int

const (
	BackgroundNone BackgroundClass = iota
	BackgroundLight
	BackgroundDark
)

// 亮度阈值，均值不高于该值判定为深色背景
const brightnessThreshold = 0.5

type rgb struct {
	R, G, B int
}

// palette 证书上各元素的用色集合
type palette struct {
	Brand         rgb
	Title         rgb
	Subtitle      rgb
	StudentName   rgb
	Underline     rgb
	Body          rgb
	CourseName    rgb
	Meta          rgb
	Footer        rgb
	BorderOuter   rgb
	BorderInner   rgb
	SignatureLine rgb
}

// contrastPalettes 深浅背景下的反差配色，静态查表而非逐色计算
var contrastPalettes = map[BackgroundClass]palette{
	// 浅色背景配深色文字
	BackgroundLight: {
		Brand:         rgb{31, 41, 55},
		Title:         rgb{17, 24, 39},
		Subtitle:      rgb{55, 65, 81},
		StudentName:   rgb{17, 24, 39},
		Underline:     rgb{55, 65, 81},
		Body:          rgb{55, 65, 81},
		CourseName:    rgb{17, 24, 39},
		Meta:          rgb{75, 85, 99},
		Footer:        rgb{107, 114, 128},
		BorderOuter:   rgb{31, 41, 55},
		BorderInner:   rgb{107, 114, 128},
		SignatureLine: rgb{55, 65, 81},
	},
	// 深色背景配浅色文字
	BackgroundDark: {
		Brand:         rgb{243, 244, 246},
		Title:         rgb{255, 255, 255},
		Subtitle:      rgb{229, 231, 235},
		StudentName:   rgb{255, 255, 255},
		Underline:     rgb{229, 231, 235},
		Body:          rgb{229, 231, 235},
		CourseName:    rgb{255, 255, 255},
		Meta:          rgb{209, 213, 219},
		Footer:        rgb{156, 163, 175},
		BorderOuter:   rgb{243, 244, 246},
		BorderInner:   rgb{156, 163, 175},
		SignatureLine: rgb{229, 231, 235},
	},
}

var (
	defaultPrimary   = rgb{79, 70, 229}  // indigo
	defaultSecondary = rgb{6, 182, 212}  // cyan
	defaultBodyGray  = rgb{55, 65, 81}   // 正文深灰
	defaultMetaGray  = rgb{107, 114, 128}
)

// originalPalette 无背景图时按模板主/辅色生成的配色
func originalPalette(primary, secondary rgb) palette {
	return palette{
		Brand:         primary,
		Title:         primary,
		Subtitle:      defaultBodyGray,
		StudentName:   rgb{17, 24, 39},
		Underline:     secondary,
		Body:          defaultBodyGray,
		CourseName:    primary,
		Meta:          defaultMetaGray,
		Footer:        defaultMetaGray,
		BorderOuter:   primary,
		BorderInner:   secondary,
		SignatureLine: defaultBodyGray,
	}
}

// ClassifyBackground 按平均亮度对背景图做三分类；
// 无图或解码失败时归为无背景，使用原始品牌配色
func ClassifyBackground(background []byte) BackgroundClass {
	if len(background) == 0 {
		return BackgroundNone
	}
	brightness, err := util.MeanBrightness(background)
	if err != nil {
		return BackgroundNone
	}
	if brightness <= brightnessThreshold {
		return BackgroundDark
	}
	return BackgroundLight
}

// parseHexColor 解析 #RRGGBB，失败时返回 fallback
func parseHexColor(s string, fallback rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{
		R: int(v >> 16 & 0xFF),
		G: int(v >> 8 & 0xFF),
		B: int(v & 0xFF),
	}
}

func detectImageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// RenderData 渲染一张证书所需的全部输入
type RenderData struct {
	StudentName       string
	CourseName        string
	CertificateNumber string
	IssueDate         time.Time
	Grade             string
	VerifyURL         string
	Template          *model.CertificateTemplate
	Background        []byte
	Signature         []byte
}

// CertificateRenderer 固定版式的证书 PDF 渲染器
type CertificateRenderer struct {
	brand       string
	logoPath    string
	unavailable bool
}

func NewCertificateRenderer(cfg *config.CertificateConfig) *CertificateRenderer {
	r := &CertificateRenderer{
		brand:    cfg.BrandName,
		logoPath: cfg.LogoPath,
	}

	// 启动时探测一次渲染能力，失败则后续所有请求统一快速失败
	probe := fpdf.New("L", "mm", "A4", "")
	probe.AddPage()
	if err := probe.Output(&bytes.Buffer{}); err != nil {
		r.unavailable = true
	}
	return r
}

// Render 渲染单页横版证书，返回 PDF 字节
func (r *CertificateRenderer) Render(data RenderData) ([]byte, error) {
	if r.unavailable {
		return nil, util.ErrRenderingUnavailable
	}

	title := "Certificate of Completion"
	subtitle := "This is to certify that"
	footer := "Verify this certificate online"
	fontFamily := "Helvetica"
	primary := defaultPrimary
	secondary := defaultSecondary
	signatureName := ""

	if tpl := data.Template; tpl != nil {
		if tpl.Title != "" {
			title = tpl.Title
		}
		if tpl.Subtitle != "" {
			subtitle = tpl.Subtitle
		}
		if tpl.FooterText != "" {
			footer = tpl.FooterText
		}
		if tpl.FontFamily != "" {
			fontFamily = tpl.FontFamily
		}
		primary = parseHexColor(tpl.PrimaryColor, defaultPrimary)
		secondary = parseHexColor(tpl.SecondaryColor, defaultSecondary)
		signatureName = tpl.SignatureName
	}

	class := ClassifyBackground(data.Background)
	colors, ok := contrastPalettes[class]
	if !ok {
		colors = originalPalette(primary, secondary)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := 297.0, 210.0

	// 背景图铺满整页
	if class != BackgroundNone {
		if imgType := detectImageType(data.Background); imgType != "" {
			opts := fpdf.ImageOptions{ImageType: imgType}
			pdf.RegisterImageOptionsReader("background", opts, bytes.NewReader(data.Background))
			pdf.ImageOptions("background", 0, 0, pageW, pageH, false, opts, 0, "")
		}
	}

	// 双层装饰边框
	pdf.SetDrawColor(colors.BorderOuter.R, colors.BorderOuter.G, colors.BorderOuter.B)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetDrawColor(colors.BorderInner.R, colors.BorderInner.G, colors.BorderInner.B)
	pdf.SetLineWidth(0.4)
	pdf.Rect(14, 14, pageW-28, pageH-28, "D")

	// Logo
	if r.logoPath != "" {
		if _, err := os.Stat(r.logoPath); err == nil {
			pdf.ImageOptions(r.logoPath, (pageW-18)/2, 20, 18, 0, false, fpdf.ImageOptions{}, 0, "")
		}
	}

	centered := func(y float64, family, style string, size float64, color rgb, text string) {
		pdf.SetFont(family, style, size)
		pdf.SetTextColor(color.R, color.G, color.B)
		pdf.SetXY(20, y)
		pdf.CellFormat(pageW-40, size*0.5, text, "", 0, "C", false, 0, "")
	}

	centered(40, fontFamily, "B", 15, colors.Brand, strings.ToUpper(r.brand))
	centered(58, fontFamily, "B", 34, colors.Title, title)
	centered(78, fontFamily, "", 14, colors.Subtitle, subtitle)
	centered(94, fontFamily, "B", 28, colors.StudentName, data.StudentName)

	// 姓名下划线
	pdf.SetDrawColor(colors.Underline.R, colors.Underline.G, colors.Underline.B)
	pdf.SetLineWidth(0.5)
	pdf.Line((pageW-120)/2, 110, (pageW+120)/2, 110)

	centered(116, fontFamily, "", 13, colors.Body, "has successfully completed the course")
	centered(129, fontFamily, "B", 20, colors.CourseName, data.CourseName)

	if data.Grade != "" {
		centered(142, fontFamily, "", 11, colors.Body, fmt.Sprintf("Grade: %s", data.Grade))
	}

	// 签名区
	if len(data.Signature) > 0 {
		if imgType := detectImageType(data.Signature); imgType != "" {
			opts := fpdf.ImageOptions{ImageType: imgType}
			pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data.Signature))
			pdf.ImageOptions("signature", 215, 150, 45, 0, false, opts, 0, "")
		}
	}
	if signatureName != "" {
		pdf.SetDrawColor(colors.SignatureLine.R, colors.SignatureLine.G, colors.SignatureLine.B)
		pdf.SetLineWidth(0.3)
		pdf.Line(212, 172, 265, 172)
		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(colors.Meta.R, colors.Meta.G, colors.Meta.B)
		pdf.SetXY(212, 174)
		pdf.CellFormat(53, 5, signatureName, "", 0, "C", false, 0, "")
		pdf.SetXY(212, 179)
		pdf.CellFormat(53, 5, "Authorized Signature", "", 0, "C", false, 0, "")
	}

	// 签发信息
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(colors.Meta.R, colors.Meta.G, colors.Meta.B)
	pdf.SetXY(24, 174)
	pdf.CellFormat(120, 5, fmt.Sprintf("Issued on %s", data.IssueDate.Format(util.DateFormat)), "", 0, "L", false, 0, "")
	pdf.SetXY(24, 179)
	pdf.CellFormat(120, 5, fmt.Sprintf("Certificate No. %s", data.CertificateNumber), "", 0, "L", false, 0, "")

	// 页脚
	footerLine := footer
	if data.VerifyURL != "" {
		footerLine = fmt.Sprintf("%s: %s", footer, data.VerifyURL)
	}
	centered(192, fontFamily, "", 9, colors.Footer, footerLine)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
