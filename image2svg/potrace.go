package image2svg

import (
	"bytes"
	"errors"
	"fmt"

	svg "github.com/ajstarks/svgo"
	"github.com/gotranspile/gotrace"

	"github.com/KJLJon/Posterize-Image/svg2json"
	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// Engine 表示矢量化引擎
type Engine string

const (
	// EngineInterior 内置的 marching squares 引擎
	EngineInterior Engine = "interior"
	// EnginePotrace 基于 gotrace 的替代引擎
	EnginePotrace Engine = "potrace"
)

// ParseEngine 校验引擎标签
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineInterior, EnginePotrace:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("unknown trace engine %q", s)
	}
}

// Convert 按指定引擎矢量化
func Convert(engine Engine, buf *pstypes.PixelBuffer, palette pstypes.Palette, level Level) (string, error) {
	if engine == EnginePotrace {
		return ConvertToSVGPotrace(buf, palette)
	}
	return ConvertToSVG(buf, palette, level)
}

// traceMaskPotrace 使用 gotrace 把单色掩码转成 SVG 字符串
func traceMaskPotrace(mask *Mask) (string, error) {
	bm := gotrace.BitmapFromGray(mask.ToGray(), nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gotrace.Render("svg", nil, &buf, paths, mask.Width, mask.Height); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ConvertToSVGPotrace 用 gotrace 引擎矢量化，输出与内置引擎相同的分组结构
// 每个颜色的 potrace 结果只取其路径数据，重新组合进一个文档
func ConvertToSVGPotrace(buf *pstypes.PixelBuffer, palette pstypes.Palette) (string, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return "", errors.New("invalid buffer")
	}
	if len(palette) == 0 {
		return "", errors.New("empty palette")
	}

	var out bytes.Buffer
	canvas := svg.New(&out)
	canvas.Startview(buf.Width, buf.Height, 0, 0, buf.Width, buf.Height)

	seen := make(map[pstypes.Color]bool, len(palette))
	for _, c := range palette {
		if seen[c] {
			continue
		}
		seen[c] = true

		mask := BuildMask(buf, c)
		if mask.Empty() {
			continue
		}
		layerSVG, err := traceMaskPotrace(mask)
		if err != nil {
			return "", fmt.Errorf("potrace %s: %w", c.Hex(), err)
		}
		paths := svg2json.ExtractPaths(layerSVG)
		if len(paths) == 0 {
			continue
		}
		canvas.Group(fmt.Sprintf(`fill="%s"`, c.Hex()))
		for _, d := range paths {
			canvas.Path(d)
		}
		canvas.Gend()
	}
	canvas.End()
	return out.String(), nil
}
