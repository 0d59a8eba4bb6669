package image2palette

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

const (
	// MinColors K 的下限
	MinColors = 2
	// MaxColors K 的上限
	MaxColors = 16

	// 采样目标像素数，限制大图上的聚类开销
	sampleTarget = 10000
	// 所有质心移动距离小于该阈值时终止迭代
	convergeDist = 1.0
	// Lloyd 迭代上限
	maxIterations = 50
)

// Algorithm 表示调色板提取算法
type Algorithm string

const (
	// AlgorithmKMeans k-means++ 聚类提取
	AlgorithmKMeans Algorithm = "kmeans"
	// AlgorithmMedianCut 中位切分提取
	AlgorithmMedianCut Algorithm = "mediancut"
)

// ExtractWith 按指定算法提取调色板
func ExtractWith(alg Algorithm, buf *pstypes.PixelBuffer, k int, rng *rand.Rand) (pstypes.Palette, error) {
	switch alg {
	case AlgorithmKMeans:
		return Extract(buf, k, rng)
	case AlgorithmMedianCut:
		return ExtractMedianCut(buf, k)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}
}

// Extract 使用 k-means++ 从缓冲区提取 k 个代表色
// rng 为 nil 时使用时间种子；传入固定种子可复现结果
func Extract(buf *pstypes.PixelBuffer, k int, rng *rand.Rand) (pstypes.Palette, error) {
	if err := checkColorCount(k); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	samples := samplePixels(buf)
	// 样本少于聚类数时聚类无意义，直接退回兜底调色板
	if len(samples) < k {
		return fallbackPalette(k), nil
	}

	centroids := seedCentroids(samples, k, rng)

	assign := make([]int, len(samples))
	for iter := 0; iter < maxIterations; iter++ {
		// 分配每个样本到最近质心
		for i, s := range samples {
			best := 0
			bestDist := math.MaxInt
			for j, c := range centroids {
				if d := s.DistSq(c); d < bestDist {
					bestDist = d
					best = j
				}
			}
			assign[i] = best
		}

		// 重算质心为簇内均值，空簇保留原质心
		sumR := make([]float64, k)
		sumG := make([]float64, k)
		sumB := make([]float64, k)
		count := make([]int, k)
		for i, s := range samples {
			j := assign[i]
			sumR[j] += float64(s.R)
			sumG[j] += float64(s.G)
			sumB[j] += float64(s.B)
			count[j]++
		}

		converged := true
		for j := range centroids {
			if count[j] == 0 {
				continue
			}
			next := pstypes.Color{
				R: int(math.Round(sumR[j] / float64(count[j]))),
				G: int(math.Round(sumG[j] / float64(count[j]))),
				B: int(math.Round(sumB[j] / float64(count[j]))),
			}
			if math.Sqrt(float64(centroids[j].DistSq(next))) >= convergeDist {
				converged = false
			}
			centroids[j] = next
		}
		if converged {
			break
		}
	}

	return clampPalette(centroids), nil
}

// samplePixels 按步长抽取约 sampleTarget 个不透明像素
// alpha < 128 的像素不参与采样，避免透明区域影响调色板
func samplePixels(buf *pstypes.PixelBuffer) []pstypes.Color {
	total := len(buf.Pixels)
	stride := total / sampleTarget
	if stride < 1 {
		stride = 1
	}
	samples := make([]pstypes.Color, 0, total/stride+1)
	for i := 0; i < total; i += stride {
		p := buf.Pixels[i]
		if p.Alpha < 128 {
			continue
		}
		samples = append(samples, p.Color)
	}
	return samples
}

// seedCentroids k-means++ 播种：首个质心均匀随机，
// 其后按到最近已有质心的距离平方做轮盘赌选取
func seedCentroids(samples []pstypes.Color, k int, rng *rand.Rand) []pstypes.Color {
	centroids := make([]pstypes.Color, 0, k)
	centroids = append(centroids, samples[rng.Intn(len(samples))])

	dists := make([]float64, len(samples))
	for len(centroids) < k {
		var total float64
		for i, s := range samples {
			best := math.MaxInt
			for _, c := range centroids {
				if d := s.DistSq(c); d < best {
					best = d
				}
			}
			dists[i] = float64(best)
			total += dists[i]
		}

		if total == 0 {
			// 所有样本与已有质心重合，退化为均匀随机
			centroids = append(centroids, samples[rng.Intn(len(samples))])
			continue
		}

		r := rng.Float64() * total
		picked := len(samples) - 1
		for i, d := range dists {
			r -= d
			if r <= 0 {
				picked = i
				break
			}
		}
		centroids = append(centroids, samples[picked])
	}
	return centroids
}

// fallbackPalette 生成确定性的兜底调色板：
// k 个色相均匀分布在色环上，饱和度 70%，亮度 50%
func fallbackPalette(k int) pstypes.Palette {
	palette := make(pstypes.Palette, k)
	for i := 0; i < k; i++ {
		hue := float64(i) * 360.0 / float64(k)
		r, g, b := colorful.Hsl(hue, 0.7, 0.5).RGB255()
		palette[i] = pstypes.Color{R: int(r), G: int(g), B: int(b)}
	}
	return palette
}

func clampPalette(colors []pstypes.Color) pstypes.Palette {
	palette := make(pstypes.Palette, len(colors))
	for i, c := range colors {
		palette[i] = pstypes.Color{
			R: clampChannel(c.R),
			G: clampChannel(c.G),
			B: clampChannel(c.B),
		}
	}
	return palette
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// checkColorCount K 越界属于调用方契约违规，直接报错而非静默截断
func checkColorCount(k int) error {
	if k < MinColors || k > MaxColors {
		return fmt.Errorf("color count %d out of range [%d,%d]", k, MinColors, MaxColors)
	}
	return nil
}
