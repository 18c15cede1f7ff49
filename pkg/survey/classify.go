package survey

import (
	"image/color"
	"strings"
)

// CodeColor is one rule of the code classification table
type CodeColor struct {
	Name      string
	Color     color.RGBA
	Substring []string
}

// codeTable maps classification codes to marker colors. Ordered:
// the first rule whose substring matches wins.
var codeTable = []CodeColor{
	{Name: "benchmark", Color: color.RGBA{R: 239, G: 68, B: 68, A: 255}, Substring: []string{"BASE", "BM"}},
	{Name: "tree", Color: color.RGBA{R: 34, G: 197, B: 94, A: 255}, Substring: []string{"ARBOL"}},
	{Name: "road", Color: color.RGBA{R: 148, G: 163, B: 184, A: 255}, Substring: []string{"VIA", "CALLE"}},
	{Name: "pole", Color: color.RGBA{R: 234, G: 179, B: 8, A: 255}, Substring: []string{"POSTE"}},
}

// DefaultCodeColor is used when no rule matches (or the code is empty)
var DefaultCodeColor = CodeColor{Name: "default", Color: color.RGBA{R: 100, G: 116, B: 139, A: 255}}

// ClassifyCode resolves a free-text point code to its marker color
// rule. Matching is case-insensitive substring, first rule wins.
func ClassifyCode(code string) CodeColor {
	if code == "" {
		return DefaultCodeColor
	}
	upper := strings.ToUpper(code)
	for _, rule := range codeTable {
		for _, sub := range rule.Substring {
			if strings.Contains(upper, sub) {
				return rule
			}
		}
	}
	return DefaultCodeColor
}
