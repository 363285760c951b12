package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"learnova_backend/internal/config"
	"learnova_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassifyBackground(t *testing.T) {
	light := testPNG(t, color.RGBA{R: 250, G: 250, B: 250, A: 255})
	dark := testPNG(t, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	assert.Equal(t, BackgroundNone, ClassifyBackground(nil))
	assert.Equal(t, BackgroundNone, ClassifyBackground([]byte{}))
	assert.Equal(t, BackgroundNone, ClassifyBackground([]byte("garbage")))
	assert.Equal(t, BackgroundLight, ClassifyBackground(light))
	assert.Equal(t, BackgroundDark, ClassifyBackground(dark))
}

func TestContrastPaletteSelection(t *testing.T) {
	// 浅色背景配深色标题，深色背景配浅色标题
	lightPalette := contrastPalettes[BackgroundLight]
	darkPalette := contrastPalettes[BackgroundDark]

	assert.Less(t, lightPalette.Title.R+lightPalette.Title.G+lightPalette.Title.B, 200)
	assert.Greater(t, darkPalette.Title.R+darkPalette.Title.G+darkPalette.Title.B, 600)

	// 无背景时不走反差表，使用模板主辅色
	_, ok := contrastPalettes[BackgroundNone]
	assert.False(t, ok)

	p := originalPalette(rgb{1, 2, 3}, rgb{4, 5, 6})
	assert.Equal(t, rgb{1, 2, 3}, p.Title)
	assert.Equal(t, rgb{4, 5, 6}, p.Underline)
}

func TestParseHexColor(t *testing.T) {
	fallback := rgb{9, 9, 9}

	assert.Equal(t, rgb{79, 70, 229}, parseHexColor("#4F46E5", fallback))
	assert.Equal(t, rgb{255, 255, 255}, parseHexColor("ffffff", fallback))
	assert.Equal(t, fallback, parseHexColor("", fallback))
	assert.Equal(t, fallback, parseHexColor("#xyz", fallback))
	assert.Equal(t, fallback, parseHexColor("#fff", fallback))
}

func TestDetectImageType(t *testing.T) {
	assert.Equal(t, "PNG", detectImageType(testPNG(t, color.RGBA{A: 255})))
	assert.Equal(t, "", detectImageType([]byte("plain text")))
}

func newTestRenderer() *CertificateRenderer {
	return NewCertificateRenderer(&config.CertificateConfig{
		BrandName: "Learnova",
		VerifyURL: "https://learnova.io/verify",
	})
}

func TestRenderProducesPDF(t *testing.T) {
	renderer := newTestRenderer()

	pdf, err := renderer.Render(RenderData{
		StudentName:       "张三",
		CourseName:        "Go 后端进阶",
		CertificateNumber: "CERT-1-2-1700000000000-0A1B2C3D",
		IssueDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Grade:             "Pass",
		VerifyURL:         "https://learnova.io/verify/CERT-1-2-1700000000000-0A1B2C3D",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Greater(t, len(pdf), 1000)
}

func TestRenderWithTemplateAndBackground(t *testing.T) {
	renderer := newTestRenderer()

	template := &model.CertificateTemplate{
		Name:           "夜间模板",
		Title:          "Certificate of Achievement",
		Subtitle:       "Awarded to",
		FooterText:     "Scan to verify",
		PrimaryColor:   "#112233",
		SecondaryColor: "#445566",
		SignatureName:  "Dr. Lin",
	}

	pdf, err := renderer.Render(RenderData{
		StudentName:       "李四",
		CourseName:        "分布式系统",
		CertificateNumber: "CERT-3-4-1700000000001-DEADBEEF",
		IssueDate:         time.Now(),
		Template:          template,
		Background:        testPNG(t, color.RGBA{R: 12, G: 12, B: 24, A: 255}),
		Signature:         testPNG(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRenderUnavailable(t *testing.T) {
	renderer := &CertificateRenderer{unavailable: true}

	_, err := renderer.Render(RenderData{StudentName: "x"})
	assert.Error(t, err)
}
