package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/image/draw"

	"github.com/KJLJon/Posterize-Image/image2palette"
	"github.com/KJLJon/Posterize-Image/image2svg"
	"github.com/KJLJon/Posterize-Image/palette2image"
	"github.com/KJLJon/Posterize-Image/store"
	"github.com/KJLJon/Posterize-Image/svg2json"
	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// Options 汇总核心管线的全部配置面
type Options struct {
	Colors     int
	Algorithm  image2palette.Algorithm
	Mode       palette2image.MapMode
	Smoothing  image2svg.Level
	Engine     image2svg.Engine
	PreSmooth  bool
	CleanEdges bool
	Seed       int64
}

// Result 保存一次海报化的中间与最终产物
type Result struct {
	Palette pstypes.Palette
	Mapped  *pstypes.PixelBuffer
	SVG     string
}

// posterize 执行完整管线：可选预平滑 → 提取调色板 →（可选边缘清理）→ 映射 → 矢量化
func posterize(buf *pstypes.PixelBuffer, opts Options) (*Result, error) {
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	src := buf
	if opts.PreSmooth {
		smoothed, err := palette2image.Smooth(src)
		if err != nil {
			return nil, fmt.Errorf("pre-smooth: %w", err)
		}
		src = smoothed
	}

	palette, err := image2palette.ExtractWith(opts.Algorithm, src, opts.Colors, rng)
	if err != nil {
		return nil, fmt.Errorf("extract palette: %w", err)
	}

	// 边缘清理作用在映射之前：映射之后所有不透明像素都等于调色板色，
	// 抗锯齿残留只在原始缓冲区上可检测
	if opts.CleanEdges {
		cleaned, err := palette2image.CleanEdges(src, palette)
		if err != nil {
			return nil, fmt.Errorf("clean edges: %w", err)
		}
		src = cleaned
	}

	mapped, err := palette2image.MapToPalette(src, palette)
	if err != nil {
		return nil, fmt.Errorf("map to palette: %w", err)
	}

	doc, err := image2svg.Convert(opts.Engine, mapped, palette, opts.Smoothing)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	return &Result{Palette: palette, Mapped: mapped, SVG: doc}, nil
}

// eraseOp 描述命令行请求的一次透明度编辑
type eraseOp struct {
	region    bool
	x, y      int
	color     pstypes.Color
	tolerance int
}

// applyErases 在双槽快照上依次执行透明度编辑，返回工作副本
func applyErases(mapped *pstypes.PixelBuffer, ops []eraseOp) (*pstypes.PixelBuffer, error) {
	snap := store.New(mapped)
	for _, op := range ops {
		var (
			next *pstypes.PixelBuffer
			err  error
		)
		if op.region {
			next, err = palette2image.EraseRegion(snap.Current(), op.x, op.y, op.tolerance)
		} else {
			next, err = palette2image.EraseColor(snap.Current(), op.color, op.tolerance)
		}
		if err != nil {
			return nil, fmt.Errorf("erase: %w", err)
		}
		snap.Apply(next)
	}
	return snap.Current(), nil
}

// loadImage 解码图像文件并转成 PixelBuffer，超宽时先缩放
// 尺寸调整是宿主职责，核心不做缩放
func loadImage(path string, maxWidth int) (*pstypes.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pstypes.FromImage(downscale(img, maxWidth)), nil
}

// downscale 按最大宽度等比缩小，小图保持原样
func downscale(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return img
	}
	scaledH := h * maxWidth / w
	if scaledH < 1 {
		scaledH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, scaledH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// writeOutput 根据扩展名写出结果：.svg/.svgz/.json/.png
func writeOutput(path string, res *Result) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svgz":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		zw := gzip.NewWriter(f)
		if _, err := zw.Write([]byte(res.SVG)); err != nil {
			return err
		}
		return zw.Close()
	case ".json":
		data, err := svg2json.DocumentJSON(res.SVG, res.Mapped)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return png.Encode(f, res.Mapped.ToImage())
	default:
		return os.WriteFile(path, []byte(res.SVG), 0o644)
	}
}
