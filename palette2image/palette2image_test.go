package palette2image

import (
	"testing"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

func newBuffer(t *testing.T, w, h int) *pstypes.PixelBuffer {
	t.Helper()
	buf, err := pstypes.NewPixelBuffer(w, h)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	return buf
}

func fill(buf *pstypes.PixelBuffer, c pstypes.Color, alpha uint8) {
	for i := range buf.Pixels {
		buf.Pixels[i] = pstypes.Pixel{Color: c, Alpha: alpha}
	}
}

func TestMapToPaletteClosure(t *testing.T) {
	palette := pstypes.Palette{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 200, G: 30, B: 30},
	}

	buf := newBuffer(t, 16, 16)
	for i := range buf.Pixels {
		buf.Pixels[i] = pstypes.Pixel{
			Color: pstypes.Color{R: (i * 31) % 256, G: (i * 57) % 256, B: (i * 7) % 256},
			Alpha: 255,
		}
	}

	out, err := MapToPalette(buf, palette)
	if err != nil {
		t.Fatalf("MapToPalette: %v", err)
	}

	inPalette := func(c pstypes.Color) bool {
		for _, pc := range palette {
			if c == pc {
				return true
			}
		}
		return false
	}
	// 不透明像素的颜色必须严格等于某个调色板色，不允许出现合成色
	for i, p := range out.Pixels {
		if p.Alpha >= 128 && !inPalette(p.Color) {
			t.Fatalf("pixel %d color %v not in palette", i, p.Color)
		}
	}
}

func TestMapToPaletteIdempotent(t *testing.T) {
	palette := pstypes.Palette{
		{R: 10, G: 10, B: 10},
		{R: 240, G: 240, B: 240},
	}

	buf := newBuffer(t, 8, 8)
	for i := range buf.Pixels {
		buf.Pixels[i] = pstypes.Pixel{
			Color: pstypes.Color{R: i * 3 % 256, G: 128, B: 255 - i*2%256},
			Alpha: 255,
		}
	}

	once, err := MapToPalette(buf, palette)
	if err != nil {
		t.Fatalf("MapToPalette: %v", err)
	}
	twice, err := MapToPalette(once, palette)
	if err != nil {
		t.Fatalf("MapToPalette: %v", err)
	}
	for i := range once.Pixels {
		if once.Pixels[i] != twice.Pixels[i] {
			t.Fatalf("remapping changed pixel %d: %v vs %v", i, once.Pixels[i], twice.Pixels[i])
		}
	}
}

func TestMapToPaletteTransparentPassthrough(t *testing.T) {
	palette := pstypes.Palette{{R: 0, G: 0, B: 0}}
	orig := pstypes.Color{R: 123, G: 45, B: 67}

	buf := newBuffer(t, 2, 2)
	fill(buf, orig, 255)
	buf.Pixels[3] = pstypes.Pixel{Color: orig, Alpha: 100}

	out, err := MapToPalette(buf, palette)
	if err != nil {
		t.Fatalf("MapToPalette: %v", err)
	}
	// alpha < 128 的像素连颜色一起原样保留
	if out.Pixels[3].Color != orig || out.Pixels[3].Alpha != 100 {
		t.Errorf("transparent pixel modified: %+v", out.Pixels[3])
	}
	if out.Pixels[0].Color != palette[0] {
		t.Errorf("opaque pixel not mapped: %+v", out.Pixels[0])
	}
}

func TestMapToPaletteTieBreaksToFirst(t *testing.T) {
	// 与两个调色板色等距时取靠前的
	palette := pstypes.Palette{
		{R: 90, G: 0, B: 0},
		{R: 110, G: 0, B: 0},
	}
	buf := newBuffer(t, 1, 1)
	fill(buf, pstypes.Color{R: 100, G: 0, B: 0}, 255)

	out, err := MapToPalette(buf, palette)
	if err != nil {
		t.Fatalf("MapToPalette: %v", err)
	}
	if out.Pixels[0].Color != palette[0] {
		t.Errorf("tie resolved to %v, want %v", out.Pixels[0].Color, palette[0])
	}
}

func TestMapToPaletteContractViolations(t *testing.T) {
	buf := newBuffer(t, 2, 2)
	fill(buf, pstypes.Color{}, 255)

	if _, err := MapToPalette(buf, nil); err == nil {
		t.Error("expected error for empty palette")
	}
	if _, err := MapToPalette(nil, pstypes.Palette{{}}); err == nil {
		t.Error("expected error for nil buffer")
	}

	broken := &pstypes.PixelBuffer{Width: 3, Height: 3, Pixels: make([]pstypes.Pixel, 4)}
	if _, err := MapToPalette(broken, pstypes.Palette{{}}); err == nil {
		t.Error("expected error for size mismatch")
	}
}

func TestCleanEdgesReassignsArtifacts(t *testing.T) {
	black := pstypes.Color{R: 0, G: 0, B: 0}
	white := pstypes.Color{R: 255, G: 255, B: 255}
	palette := pstypes.Palette{black, white}

	buf := newBuffer(t, 3, 3)
	fill(buf, black, 255)
	// 中心是远离所有调色板色的抗锯齿残留
	buf.SetAt(1, 1, pstypes.Pixel{Color: pstypes.Color{R: 120, G: 120, B: 120}, Alpha: 255})

	out, err := CleanEdges(buf, palette)
	if err != nil {
		t.Fatalf("CleanEdges: %v", err)
	}
	if got := out.At(1, 1).Color; got != black {
		t.Errorf("artifact reassigned to %v, want %v", got, black)
	}
	// 贴近调色板色的像素不动
	if got := out.At(0, 0).Color; got != black {
		t.Errorf("clean pixel changed to %v", got)
	}
}

func TestCleanEdgesPluralityVote(t *testing.T) {
	a := pstypes.Color{R: 0, G: 0, B: 0}
	b := pstypes.Color{R: 255, G: 255, B: 255}
	palette := pstypes.Palette{a, b}

	// 8 邻域 5 白 3 黑，中心残留应投给白
	buf := newBuffer(t, 3, 3)
	fill(buf, b, 255)
	buf.SetAt(0, 0, pstypes.Pixel{Color: a, Alpha: 255})
	buf.SetAt(1, 0, pstypes.Pixel{Color: a, Alpha: 255})
	buf.SetAt(2, 0, pstypes.Pixel{Color: a, Alpha: 255})
	buf.SetAt(1, 1, pstypes.Pixel{Color: pstypes.Color{R: 100, G: 130, B: 90}, Alpha: 255})

	out, err := CleanEdges(buf, palette)
	if err != nil {
		t.Fatalf("CleanEdges: %v", err)
	}
	if got := out.At(1, 1).Color; got != b {
		t.Errorf("vote resolved to %v, want %v", got, b)
	}
}

func TestSmoothBordersAndAlpha(t *testing.T) {
	base := pstypes.Color{R: 90, G: 90, B: 90}
	buf := newBuffer(t, 3, 3)
	fill(buf, base, 200)
	buf.SetAt(1, 1, pstypes.Pixel{Color: pstypes.Color{R: 180, G: 0, B: 90}, Alpha: 200})

	out, err := Smooth(buf)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}

	// 中心变为 9 邻域均值
	want := pstypes.Color{R: (90*8 + 180) / 9, G: 90 * 8 / 9, B: 90}
	if got := out.At(1, 1).Color; got != want {
		t.Errorf("center = %v, want %v", got, want)
	}
	// 边界像素不滤波
	if got := out.At(0, 0).Color; got != base {
		t.Errorf("border changed to %v", got)
	}
	// alpha 通道原样保留
	for i, p := range out.Pixels {
		if p.Alpha != 200 {
			t.Errorf("pixel %d alpha = %d, want 200", i, p.Alpha)
		}
	}
}

func TestSmoothDoesNotMutateInput(t *testing.T) {
	buf := newBuffer(t, 3, 3)
	fill(buf, pstypes.Color{R: 10, G: 20, B: 30}, 255)
	buf.SetAt(1, 1, pstypes.Pixel{Color: pstypes.Color{R: 250, G: 250, B: 250}, Alpha: 255})
	before := buf.At(1, 1)

	if _, err := Smooth(buf); err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	if buf.At(1, 1) != before {
		t.Error("Smooth mutated its input buffer")
	}
}
