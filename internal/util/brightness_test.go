package util

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.RGBA, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMeanBrightnessLightImage(t *testing.T) {
	data := solidPNG(t, color.RGBA{R: 250, G: 250, B: 250, A: 255}, 100, 60)

	brightness, err := MeanBrightness(data)
	require.NoError(t, err)
	assert.Greater(t, brightness, 0.9)
}

func TestMeanBrightnessDarkImage(t *testing.T) {
	data := solidPNG(t, color.RGBA{R: 10, G: 10, B: 10, A: 255}, 100, 60)

	brightness, err := MeanBrightness(data)
	require.NoError(t, err)
	assert.Less(t, brightness, 0.1)
}

func TestMeanBrightnessMixedChannels(t *testing.T) {
	// 三通道均值 (255+0+0)/3/255 = 1/3
	data := solidPNG(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, 50, 50)

	brightness, err := MeanBrightness(data)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, brightness, 0.02)
}

func TestMeanBrightnessEmptyData(t *testing.T) {
	_, err := MeanBrightness(nil)
	assert.Error(t, err)
}

func TestMeanBrightnessInvalidData(t *testing.T) {
	_, err := MeanBrightness([]byte("not an image"))
	assert.Error(t, err)
}
