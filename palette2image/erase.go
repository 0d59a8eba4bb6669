package palette2image

import (
	"errors"
	"fmt"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

const (
	// DefaultRegionTolerance 区域擦除的默认容差
	DefaultRegionTolerance = 30
	// DefaultColorTolerance 全局色擦除的默认容差
	DefaultColorTolerance = 10
)

// EraseRegion 从 (x,y) 出发做 4 连通洪泛填充，
// 把颜色距起点色不超过 tolerance 的连通像素 alpha 置 0
// 使用显式工作队列，避免大图上的深递归
func EraseRegion(buf *pstypes.PixelBuffer, x, y, tolerance int) (*pstypes.PixelBuffer, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return nil, errors.New("invalid buffer")
	}
	if !buf.In(x, y) {
		return nil, fmt.Errorf("seed (%d,%d) outside %dx%d buffer", x, y, buf.Width, buf.Height)
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("negative tolerance %d", tolerance)
	}

	out := buf.Clone()
	start := buf.At(x, y).Color
	tolSq := tolerance * tolerance

	visited := make([]bool, len(buf.Pixels))
	queue := []int{buf.Index(x, y)}
	visited[queue[0]] = true

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		out.Pixels[i].Alpha = 0

		cx, cy := i%buf.Width, i/buf.Width
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if !buf.In(nx, ny) {
				continue
			}
			ni := buf.Index(nx, ny)
			if visited[ni] {
				continue
			}
			if buf.Pixels[ni].Color.DistSq(start) > tolSq {
				continue
			}
			visited[ni] = true
			queue = append(queue, ni)
		}
	}
	return out, nil
}

// EraseColor 把全图中与 target 距离不超过 tolerance 的像素 alpha 置 0
// 不考虑连通性
func EraseColor(buf *pstypes.PixelBuffer, target pstypes.Color, tolerance int) (*pstypes.PixelBuffer, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return nil, errors.New("invalid buffer")
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("negative tolerance %d", tolerance)
	}

	out := buf.Clone()
	tolSq := tolerance * tolerance
	for i, p := range buf.Pixels {
		if p.Color.DistSq(target) <= tolSq {
			out.Pixels[i].Alpha = 0
		}
	}
	return out, nil
}
