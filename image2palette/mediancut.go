package image2palette

import (
	"sort"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// box 表示颜色盒子
type box struct {
	colors     []pstypes.Color
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
}

func newBox(colors []pstypes.Color) *box {
	b := &box{colors: colors}
	b.updateRange()
	return b
}

// updateRange 计算盒子在每个通道上的范围
func (b *box) updateRange() {
	if len(b.colors) == 0 {
		return
	}
	b.rMin, b.rMax = 255, 0
	b.gMin, b.gMax = 255, 0
	b.bMin, b.bMax = 255, 0
	for _, c := range b.colors {
		if c.R < b.rMin {
			b.rMin = c.R
		}
		if c.R > b.rMax {
			b.rMax = c.R
		}
		if c.G < b.gMin {
			b.gMin = c.G
		}
		if c.G > b.gMax {
			b.gMax = c.G
		}
		if c.B < b.bMin {
			b.bMin = c.B
		}
		if c.B > b.bMax {
			b.bMax = c.B
		}
	}
}

// ExtractMedianCut 使用中位切分提取 k 个代表色
// 与 Extract 不同，该算法是确定性的
func ExtractMedianCut(buf *pstypes.PixelBuffer, k int) (pstypes.Palette, error) {
	if err := checkColorCount(k); err != nil {
		return nil, err
	}

	samples := samplePixels(buf)
	if len(samples) < k {
		return fallbackPalette(k), nil
	}

	boxes := []*box{newBox(samples)}

	// 不断分割范围最大的盒子
	for len(boxes) < k && len(boxes) < len(samples) {
		var boxToSplit *box
		splitIdx := -1
		maxRange := -1
		for i, b := range boxes {
			rangeMax := max(b.rMax-b.rMin, b.gMax-b.gMin, b.bMax-b.bMin)
			if rangeMax > maxRange {
				maxRange = rangeMax
				boxToSplit = b
				splitIdx = i
			}
		}
		if boxToSplit == nil || len(boxToSplit.colors) < 2 {
			break
		}

		// 沿范围最大的通道按中位数切开
		rRange := boxToSplit.rMax - boxToSplit.rMin
		gRange := boxToSplit.gMax - boxToSplit.gMin
		bRange := boxToSplit.bMax - boxToSplit.bMin

		sort.Slice(boxToSplit.colors, func(i, j int) bool {
			ci, cj := boxToSplit.colors[i], boxToSplit.colors[j]
			switch {
			case rRange >= gRange && rRange >= bRange:
				return ci.R < cj.R
			case gRange >= rRange && gRange >= bRange:
				return ci.G < cj.G
			default:
				return ci.B < cj.B
			}
		})

		median := len(boxToSplit.colors) / 2
		box1 := newBox(append([]pstypes.Color{}, boxToSplit.colors[:median]...))
		box2 := newBox(append([]pstypes.Color{}, boxToSplit.colors[median:]...))
		boxes = append(boxes[:splitIdx], append([]*box{box1, box2}, boxes[splitIdx+1:]...)...)
	}

	// 每个盒子取平均色；盒子不足 k 个时用兜底色补齐，保证长度契约
	palette := make(pstypes.Palette, 0, k)
	for _, b := range boxes {
		if len(b.colors) == 0 {
			continue
		}
		var rSum, gSum, bSum int
		for _, c := range b.colors {
			rSum += c.R
			gSum += c.G
			bSum += c.B
		}
		n := len(b.colors)
		palette = append(palette, pstypes.Color{R: rSum / n, G: gSum / n, B: bSum / n})
	}
	for i := len(palette); i < k; i++ {
		palette = append(palette, fallbackPalette(k)[i])
	}
	return palette[:k], nil
}
