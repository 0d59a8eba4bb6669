package image2svg

import (
	"fmt"
	"math"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// Level 表示平滑等级
type Level string

const (
	// LevelSimple 粗简化，点更少输出更小
	LevelSimple Level = "simple"
	// LevelComplex 细简化，保留更多细节
	LevelComplex Level = "complex"
)

// ParseLevel 校验平滑等级标签
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelSimple, LevelComplex:
		return Level(s), nil
	default:
		return "", fmt.Errorf("unknown smoothing level %q", s)
	}
}

// Tolerance 返回该等级对应的 RDP 容差
func (l Level) Tolerance() float64 {
	if l == LevelComplex {
		return 0.5
	}
	return 2.0
}

// Simplify 用 Ramer–Douglas–Peucker 简化轮廓
// 使用显式栈而非递归，轮廓很长时不受递归深度限制
// 始终保留首尾两点，输出点数不会超过输入
func Simplify(contour pstypes.Contour, tolerance float64) pstypes.Contour {
	if len(contour) <= 2 {
		out := make(pstypes.Contour, len(contour))
		copy(out, contour)
		return out
	}

	keep := make([]bool, len(contour))
	keep[0] = true
	keep[len(contour)-1] = true

	stack := [][2]int{{0, len(contour) - 1}}
	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b := seg[0], seg[1]

		maxDist := 0.0
		maxIdx := -1
		for i := a + 1; i < b; i++ {
			if d := perpendicularDist(contour[i], contour[a], contour[b]); d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}
		if maxIdx >= 0 && maxDist > tolerance {
			keep[maxIdx] = true
			stack = append(stack, [2]int{a, maxIdx}, [2]int{maxIdx, b})
		}
	}

	out := make(pstypes.Contour, 0, len(contour))
	for i, k := range keep {
		if k {
			out = append(out, contour[i])
		}
	}
	return out
}

// perpendicularDist 返回点 p 到弦 a-b 的垂直距离
// 弦长为零时退化为点到点距离
func perpendicularDist(p, a, b pstypes.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}
