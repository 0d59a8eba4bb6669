package pstypes

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color 表示一个 RGB 颜色，通道取值范围 [0,255]
type Color struct {
	R, G, B int
}

// DistSq 返回两个颜色在 RGB 空间的欧氏距离平方
// 量化与映射共用同一个度量
func (c Color) DistSq(o Color) int {
	dr := c.R - o.R
	dg := c.G - o.G
	db := c.B - o.B
	return dr*dr + dg*dg + db*db
}

// Hex 返回 #rrggbb 格式的十六进制颜色串
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// ParseHex 解析 #RRGGBB 形式的颜色串
// 宿主边界负责文本颜色的校验，核心管线只接收整数三元组
func ParseHex(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	r, err := strconv.ParseUint(s[0:2], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	g, err := strconv.ParseUint(s[2:4], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	b, err := strconv.ParseUint(s[4:6], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{R: int(r), G: int(g), B: int(b)}, nil
}

// Palette 是有序的代表色序列，长度 2~16，顺序仅用于展示
type Palette []Color

// Pixel 表示一个像素的颜色与透明度
type Pixel struct {
	Color Color
	Alpha uint8
}

// PixelBuffer 表示按行优先存储的像素缓冲区
// 每个阶段都从输入缓冲区生成新的缓冲区，跨阶段不做原地修改
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []Pixel
}

// NewPixelBuffer 创建 w×h 的空缓冲区
func NewPixelBuffer(w, h int) (*PixelBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", w, h)
	}
	return &PixelBuffer{Width: w, Height: h, Pixels: make([]Pixel, w*h)}, nil
}

// Index 返回 (x,y) 在像素数组中的下标
func (b *PixelBuffer) Index(x, y int) int {
	return y*b.Width + x
}

// In 判断坐标是否在缓冲区内
func (b *PixelBuffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At 返回 (x,y) 处的像素
func (b *PixelBuffer) At(x, y int) Pixel {
	return b.Pixels[y*b.Width+x]
}

// SetAt 设置 (x,y) 处的像素
func (b *PixelBuffer) SetAt(x, y int, p Pixel) {
	b.Pixels[y*b.Width+x] = p
}

// Clone 返回缓冲区的深拷贝
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{
		Width:  b.Width,
		Height: b.Height,
		Pixels: make([]Pixel, len(b.Pixels)),
	}
	copy(out.Pixels, b.Pixels)
	return out
}

// FromImage 将解码后的 image.Image 转成 PixelBuffer
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := &PixelBuffer{Width: w, Height: h, Pixels: make([]Pixel, w*h)}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			buf.Pixels[i] = Pixel{
				Color: Color{R: int(r >> 8), G: int(g >> 8), B: int(b >> 8)},
				Alpha: uint8(a >> 8),
			}
			i++
		}
	}
	return buf
}

// ToImage 将 PixelBuffer 转回 *image.RGBA，供宿主编码输出
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.Pixels[y*b.Width+x]
			img.SetRGBA(x, y, stdcolor.RGBA{
				R: uint8(p.Color.R),
				G: uint8(p.Color.G),
				B: uint8(p.Color.B),
				A: p.Alpha,
			})
		}
	}
	return img
}

// Point 表示亚像素级的二维坐标（网格角点或边中点）
type Point struct {
	X, Y float64
}

// Contour 是闭合折线的有序点列
type Contour []Point

// Path 表示一条平滑闭合曲线及其填充色
type Path struct {
	Fill Color
	D    string
}
