package palette2image

import (
	"errors"
	"fmt"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// MapMode 表示映射模式的用户标签
// 两种模式在核心层定义完全相同，都是最近色替换
type MapMode string

const (
	// ModeDirect 直接替换
	ModeDirect MapMode = "direct"
	// ModeClosest 最近匹配
	ModeClosest MapMode = "closest"
)

// ParseMode 校验映射模式标签
func ParseMode(s string) (MapMode, error) {
	switch MapMode(s) {
	case ModeDirect, ModeClosest:
		return MapMode(s), nil
	default:
		return "", fmt.Errorf("unknown map mode %q", s)
	}
}

// 映射后与调色板色的最大距离，超过视为抗锯齿边缘残留
const edgeArtifactDist = 5

// MapToPalette 将每个不透明像素替换为最近的调色板色
// alpha < 128 的像素原样保留（包括颜色）；并列时取调色板中靠前的颜色
func MapToPalette(buf *pstypes.PixelBuffer, palette pstypes.Palette) (*pstypes.PixelBuffer, error) {
	if err := checkInput(buf, palette); err != nil {
		return nil, err
	}

	out := buf.Clone()
	for i, p := range buf.Pixels {
		if p.Alpha < 128 {
			continue
		}
		out.Pixels[i].Color = nearest(p.Color, palette)
	}
	return out, nil
}

// nearest 返回调色板中距 c 最近的颜色，严格小于才更新，保证并列取首个
func nearest(c pstypes.Color, palette pstypes.Palette) pstypes.Color {
	best := palette[0]
	bestDist := c.DistSq(palette[0])
	for _, pc := range palette[1:] {
		if d := c.DistSq(pc); d < bestDist {
			bestDist = d
			best = pc
		}
	}
	return best
}

// CleanEdges 清理抗锯齿边缘：与所有调色板色距离都超过 5 的像素，
// 重新指派为 8 邻域中最常见的最近调色板色，并列取遍历中先出现的颜色
func CleanEdges(buf *pstypes.PixelBuffer, palette pstypes.Palette) (*pstypes.PixelBuffer, error) {
	if err := checkInput(buf, palette); err != nil {
		return nil, err
	}

	out := buf.Clone()
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			p := buf.At(x, y)
			if p.Alpha < 128 || !isArtifact(p.Color, palette) {
				continue
			}

			// 统计邻居的最近调色板色票数
			votes := make(map[pstypes.Color]int, 8)
			var order []pstypes.Color
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if !buf.In(nx, ny) {
						continue
					}
					c := nearest(buf.At(nx, ny).Color, palette)
					if votes[c] == 0 {
						order = append(order, c)
					}
					votes[c]++
				}
			}
			if len(order) == 0 {
				continue
			}
			winner := order[0]
			for _, c := range order[1:] {
				if votes[c] > votes[winner] {
					winner = c
				}
			}
			out.Pixels[out.Index(x, y)].Color = winner
		}
	}
	return out, nil
}

func isArtifact(c pstypes.Color, palette pstypes.Palette) bool {
	for _, pc := range palette {
		if c.DistSq(pc) <= edgeArtifactDist*edgeArtifactDist {
			return false
		}
	}
	return true
}

// Smooth 量化前的 3×3 均值滤波，只作用于颜色通道
// alpha 原样保留，边界行列不滤波
func Smooth(buf *pstypes.PixelBuffer) (*pstypes.PixelBuffer, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return nil, errors.New("invalid buffer")
	}

	out := buf.Clone()
	for y := 1; y < buf.Height-1; y++ {
		for x := 1; x < buf.Width-1; x++ {
			var rSum, gSum, bSum int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					c := buf.At(x+dx, y+dy).Color
					rSum += c.R
					gSum += c.G
					bSum += c.B
				}
			}
			i := out.Index(x, y)
			out.Pixels[i].Color = pstypes.Color{R: rSum / 9, G: gSum / 9, B: bSum / 9}
		}
	}
	return out, nil
}

func checkInput(buf *pstypes.PixelBuffer, palette pstypes.Palette) error {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return errors.New("invalid buffer")
	}
	if len(buf.Pixels) != buf.Width*buf.Height {
		return fmt.Errorf("buffer size mismatch: %d pixels for %dx%d", len(buf.Pixels), buf.Width, buf.Height)
	}
	if len(palette) == 0 {
		return errors.New("empty palette")
	}
	return nil
}
