package image2svg

import (
	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// 行进方向
type direction struct {
	dx, dy int
}

var (
	dirUp    = direction{0, -1}
	dirDown  = direction{0, 1}
	dirLeft  = direction{-1, 0}
	dirRight = direction{1, 0}
	dirNone  = direction{0, 0}
)

// stepTable 16 种 2×2 角点配置对应的出边方向
// 位权：左上 8、右上 4、右下 2、左下 1；走向保持实心区域在行进方向左侧
// 配置 5 和 10 是鞍点，同时存在两条边界段，按入边方向择一通过，
// 另一条留给后续扫描，不做对角线启发式合并
var stepTable = [16]direction{
	0:  dirNone,
	1:  dirLeft,
	2:  dirDown,
	3:  dirLeft,
	4:  dirRight,
	5:  dirNone, // 鞍点
	6:  dirDown,
	7:  dirLeft,
	8:  dirUp,
	9:  dirUp,
	10: dirNone, // 鞍点
	11: dirUp,
	12: dirRight,
	13: dirRight,
	14: dirDown,
	15: dirNone,
}

// 有向边界段的方向位，按格点索引聚合
const (
	edgeUp uint8 = 1 << iota
	edgeDown
	edgeLeft
	edgeRight
)

func edgeBit(d direction) uint8 {
	switch d {
	case dirUp:
		return edgeUp
	case dirDown:
		return edgeDown
	case dirLeft:
		return edgeLeft
	}
	return edgeRight
}

// TraceContours 以光栅顺序扫描掩码，对每个未访问的掩码像素走一条轮廓
// 返回丢弃退化轮廓（点数 ≤ 2）后的轮廓集合
func TraceContours(m *Mask) []pstypes.Contour {
	visited := make([]bool, len(m.Bits))
	edges := make([]uint8, (m.Width+1)*(m.Height+1))
	var contours []pstypes.Contour

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if !m.Bits[i] || visited[i] {
				continue
			}
			contour := walkContour(m, visited, edges, x, y)
			visited[i] = true
			if len(contour) > 2 {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

// cellConfig 计算格点 (cx,cy) 周围 2×2 像素的 4 位配置
func cellConfig(m *Mask, cx, cy int) int {
	v := 0
	if m.At(cx-1, cy-1) {
		v |= 8
	}
	if m.At(cx, cy-1) {
		v |= 4
	}
	if m.At(cx, cy) {
		v |= 2
	}
	if m.At(cx-1, cy) {
		v |= 1
	}
	return v
}

// walkContour 从格点 (sx,sy) 出发沿边界行进，回到起点或步数耗尽时结束，
// 同时在 edges 里消耗走过的有向边界段并把行进左侧的掩码像素标记为已访问。
// 仅靠左侧标记不够：区域内部孔洞的边界能从孔洞右侧和右下对角两个
// 起点像素各进入一次，踩到已消耗的段即判定整条环路重复，直接丢弃。
// 步数预算取角点网格规模 (W+1)×(H+1) 而非像素数 W×H，
// 否则 3×3 这类小图的画布边界轮廓会被截断
func walkContour(m *Mask, visited []bool, edges []uint8, sx, sy int) pstypes.Contour {
	budget := (m.Width + 1) * (m.Height + 1)
	var contour pstypes.Contour

	cx, cy := sx, sy
	prev := dirDown
	for step := 0; step < budget; step++ {
		v := cellConfig(m, cx, cy)
		d := stepTable[v]
		switch v {
		case 5:
			if prev == dirUp {
				d = dirLeft
			} else {
				d = dirRight
			}
		case 10:
			if prev == dirRight {
				d = dirUp
			} else {
				d = dirDown
			}
		}
		if d == dirNone {
			// 配置 0 或 15，无边界段
			break
		}

		ei := cy*(m.Width+1) + cx
		bit := edgeBit(d)
		if edges[ei]&bit != 0 {
			// 给定格点和出边方向后整条环路唯一确定，
			// 鞍点两次通过走的是不同方向位，不会误伤
			return nil
		}
		edges[ei] |= bit

		contour = append(contour, pstypes.Point{X: float64(cx), Y: float64(cy)})
		markLeft(m, visited, cx, cy, d)

		cx += d.dx
		cy += d.dy
		prev = d
		if cx == sx && cy == sy {
			break
		}
	}
	return contour
}

// markLeft 标记行进方向左侧的实心像素为已访问
// 只标记当前轮廓所属区域的像素，鞍点处对角相邻的区域留待后续扫描
func markLeft(m *Mask, visited []bool, cx, cy int, d direction) {
	var x, y int
	switch d {
	case dirUp:
		x, y = cx-1, cy-1
	case dirDown:
		x, y = cx, cy
	case dirRight:
		x, y = cx, cy-1
	case dirLeft:
		x, y = cx-1, cy
	}
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	if m.Bits[y*m.Width+x] {
		visited[y*m.Width+x] = true
	}
}
