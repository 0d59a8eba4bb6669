package svg2json

import (
	"encoding/json"
	"encoding/xml"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// LayerData 表示单个颜色图层的路径数据
type LayerData struct {
	Color    string `json:"color"`
	PathData string `json:"pathdata"`
}

// DocumentData 封装整个文档的分层路径数据
type DocumentData struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Layers []LayerData `json:"layers"`
}

// ExtractPaths 从 SVG 字符串中提取所有 <path> 的 d 属性
func ExtractPaths(svgText string) []string {
	type path struct {
		D string `xml:"d,attr"`
	}
	type group struct {
		Paths []path `xml:"path"`
	}
	type svgDoc struct {
		Paths  []path  `xml:"path"`
		Groups []group `xml:"g"`
	}

	var doc svgDoc
	if err := xml.Unmarshal([]byte(svgText), &doc); err != nil {
		return nil
	}

	var out []string
	for _, g := range doc.Groups {
		for _, p := range g.Paths {
			out = append(out, p.D)
		}
	}
	for _, p := range doc.Paths {
		out = append(out, p.D)
	}
	return out
}

// ExtractLayers 按分组提取 SVG 中每个填充色的路径数据
func ExtractLayers(svgText string) []LayerData {
	type path struct {
		D string `xml:"d,attr"`
	}
	type group struct {
		Fill  string `xml:"fill,attr"`
		Paths []path `xml:"path"`
	}
	type svgDoc struct {
		Groups []group `xml:"g"`
	}

	var doc svgDoc
	if err := xml.Unmarshal([]byte(svgText), &doc); err != nil {
		return nil
	}

	layers := make([]LayerData, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		var joined string
		for i, p := range g.Paths {
			if i > 0 {
				joined += " "
			}
			joined += p.D
		}
		layers = append(layers, LayerData{Color: g.Fill, PathData: joined})
	}
	return layers
}

// DocumentJSON 把 SVG 文档转成分层 JSON，供只消费路径数据的宿主使用
func DocumentJSON(svgText string, buf *pstypes.PixelBuffer) ([]byte, error) {
	return json.MarshalIndent(DocumentData{
		Width:  buf.Width,
		Height: buf.Height,
		Layers: ExtractLayers(svgText),
	}, "", "  ")
}
