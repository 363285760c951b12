package util

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// 采样前统一缩放到的边长，决定亮度统计的样本数上限
const brightnessSampleSize = 64

// MeanBrightness 计算图片的平均亮度，返回 [0,1] 区间的值。
// 亮度取三个 RGB 通道均值的平均，先缩小图片再逐像素统计。
func MeanBrightness(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("empty image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	small := imaging.Resize(img, brightnessSampleSize, 0, imaging.Box)
	bounds := small.Bounds()
	if bounds.Empty() {
		return 0, errors.New("image has no pixels")
	}

	var sumR, sumG, sumB float64
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
			count++
		}
	}

	n := float64(count)
	avg := (sumR/n + sumG/n + sumB/n) / 3
	return avg / 255, nil
}
