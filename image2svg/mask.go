package image2svg

import (
	"image"
	"image/color"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// 像素归属某调色板色的判定：alpha > 128 且各通道差值 < 5
const maskChannelDiff = 5

// Mask 表示某个调色板色的二值区域网格
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// BuildMask 根据目标色在整个缓冲区上构建二值掩码
func BuildMask(buf *pstypes.PixelBuffer, target pstypes.Color) *Mask {
	m := &Mask{
		Width:  buf.Width,
		Height: buf.Height,
		Bits:   make([]bool, len(buf.Pixels)),
	}
	for i, p := range buf.Pixels {
		if p.Alpha <= 128 {
			continue
		}
		c := p.Color
		if abs(c.R-target.R) < maskChannelDiff &&
			abs(c.G-target.G) < maskChannelDiff &&
			abs(c.B-target.B) < maskChannelDiff {
			m.Bits[i] = true
		}
	}
	return m
}

// At 越界位置视为 false，保证贴边区域能走出画布边界轮廓
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Empty 判断掩码是否为空
func (m *Mask) Empty() bool {
	for _, b := range m.Bits {
		if b {
			return false
		}
	}
	return true
}

// ToGray 转为黑白掩码图：黑=该颜色，白=其他，供 potrace 引擎使用
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := uint8(255)
			if m.Bits[y*m.Width+x] {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
