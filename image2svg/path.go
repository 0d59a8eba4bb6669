package image2svg

import (
	"strconv"
	"strings"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// SmoothPath 把简化后的点列平滑为闭合路径的 d 串
// 首点 M 起笔；每个内部点作为二次曲线控制点，终点取它与下一点的中点；
// 最后 L 到原始末点并 Z 闭合。点数不足 2 时返回空串
func SmoothPath(contour pstypes.Contour) string {
	if len(contour) < 2 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("M ")
	writePoint(&sb, contour[0])

	for i := 1; i < len(contour)-1; i++ {
		ctrl := contour[i]
		next := contour[i+1]
		mid := pstypes.Point{X: (ctrl.X + next.X) / 2, Y: (ctrl.Y + next.Y) / 2}
		sb.WriteString(" Q ")
		writePoint(&sb, ctrl)
		sb.WriteByte(' ')
		writePoint(&sb, mid)
	}

	sb.WriteString(" L ")
	writePoint(&sb, contour[len(contour)-1])
	sb.WriteString(" Z")
	return sb.String()
}

func writePoint(sb *strings.Builder, p pstypes.Point) {
	sb.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}
