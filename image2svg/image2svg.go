package image2svg

import (
	"bytes"
	"errors"
	"fmt"

	svg "github.com/ajstarks/svgo"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// TraceColor 对单个调色板色独立完成掩码、轮廓、简化、平滑
// 每个颜色的追踪互不共享状态，宿主可以按颜色并行调用
func TraceColor(buf *pstypes.PixelBuffer, target pstypes.Color, level Level) []pstypes.Path {
	mask := BuildMask(buf, target)
	if mask.Empty() {
		return nil
	}

	tolerance := level.Tolerance()
	var paths []pstypes.Path
	for _, contour := range TraceContours(mask) {
		simplified := Simplify(contour, tolerance)
		d := SmoothPath(simplified)
		if d == "" {
			continue
		}
		paths = append(paths, pstypes.Path{Fill: target, D: d})
	}
	return paths
}

// ConvertToSVG 把调色板映射后的缓冲区转成 SVG 文档
// 每个调色板色一个填充分组，没有轮廓的颜色不产生分组
func ConvertToSVG(buf *pstypes.PixelBuffer, palette pstypes.Palette, level Level) (string, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return "", errors.New("invalid buffer")
	}
	if len(buf.Pixels) != buf.Width*buf.Height {
		return "", fmt.Errorf("buffer size mismatch: %d pixels for %dx%d", len(buf.Pixels), buf.Width, buf.Height)
	}
	if len(palette) == 0 {
		return "", errors.New("empty palette")
	}

	var out bytes.Buffer
	canvas := svg.New(&out)
	canvas.Startview(buf.Width, buf.Height, 0, 0, buf.Width, buf.Height)

	seen := make(map[pstypes.Color]bool, len(palette))
	for _, c := range palette {
		// 调色板出现重复色时只追踪一次
		if seen[c] {
			continue
		}
		seen[c] = true

		paths := TraceColor(buf, c, level)
		if len(paths) == 0 {
			continue
		}
		canvas.Group(fmt.Sprintf(`fill="%s"`, c.Hex()))
		for _, p := range paths {
			canvas.Path(p.D)
		}
		canvas.Gend()
	}
	canvas.End()
	return out.String(), nil
}
