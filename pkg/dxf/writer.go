// Package dxf writes survey projects as minimal DXF R12 drawings,
// the interchange format most desktop CAD packages read.
package dxf

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	"topocad/pkg/plan"
	"topocad/pkg/survey"
)

const pointsLayer = "PUNTOS"

// Document collects the entities to export
type Document struct {
	Points []survey.Point
	Layers []survey.Layer
}

// Write emits the document as an ASCII DXF R12 drawing. Points land
// on the PUNTOS layer with their name as a text label; each drawing
// layer becomes a DXF layer carrying its resolved segments.
func Write(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	byID := survey.PointsByID(doc.Points)

	writeHeader(bw)
	writeTables(bw, doc.Layers)

	tag(bw, 0, "SECTION")
	tag(bw, 2, "ENTITIES")

	for _, p := range doc.Points {
		tag(bw, 0, "POINT")
		tag(bw, 8, pointsLayer)
		tagf(bw, 10, p.X)
		tagf(bw, 20, p.Y)
		tagf(bw, 30, p.Z)

		if p.Name != "" {
			tag(bw, 0, "TEXT")
			tag(bw, 8, pointsLayer)
			tagf(bw, 10, p.X)
			tagf(bw, 20, p.Y)
			tagf(bw, 30, p.Z)
			tagf(bw, 40, 0.5)
			tag(bw, 1, p.Name)
		}
	}

	for _, layer := range doc.Layers {
		for _, ref := range layer.Drawing().Lines {
			from, to, ok := survey.ResolveSegment(ref, byID)
			if !ok {
				continue
			}
			tag(bw, 0, "LINE")
			tag(bw, 8, layerName(layer))
			tagf(bw, 10, from.X)
			tagf(bw, 20, from.Y)
			tagf(bw, 30, from.Z)
			tagf(bw, 11, to.X)
			tagf(bw, 21, to.Y)
			tagf(bw, 31, to.Z)
		}
	}

	tag(bw, 0, "ENDSEC")
	tag(bw, 0, "EOF")
	return bw.Flush()
}

func writeHeader(w io.Writer) {
	tag(w, 0, "SECTION")
	tag(w, 2, "HEADER")
	tag(w, 9, "$ACADVER")
	tag(w, 1, "AC1009")
	tag(w, 0, "ENDSEC")
}

func writeTables(w io.Writer, layers []survey.Layer) {
	tag(w, 0, "SECTION")
	tag(w, 2, "TABLES")
	tag(w, 0, "TABLE")
	tag(w, 2, "LAYER")
	tag(w, 70, fmt.Sprintf("%d", len(layers)+1))

	writeLayerEntry(w, pointsLayer, 7)
	for _, layer := range layers {
		writeLayerEntry(w, layerName(layer), aciFromHex(layer.Color))
	}

	tag(w, 0, "ENDTAB")
	tag(w, 0, "ENDSEC")
}

func writeLayerEntry(w io.Writer, name string, aci int) {
	tag(w, 0, "LAYER")
	tag(w, 2, name)
	tag(w, 70, "0")
	tag(w, 62, fmt.Sprintf("%d", aci))
	tag(w, 6, "CONTINUOUS")
}

func layerName(layer survey.Layer) string {
	if layer.Name != "" {
		return layer.Name
	}
	return fmt.Sprintf("CAPA_%d", layer.ID)
}

func tag(w io.Writer, code int, value string) {
	fmt.Fprintf(w, "%d\n%s\n", code, value)
}

func tagf(w io.Writer, code int, value float64) {
	fmt.Fprintf(w, "%d\n%.6f\n", code, value)
}

// aciPalette is the subset of AutoCAD color indexes worth matching
var aciPalette = []struct {
	index int
	rgb   color.RGBA
}{
	{1, color.RGBA{R: 255}},                 // red
	{2, color.RGBA{R: 255, G: 255}},         // yellow
	{3, color.RGBA{G: 255}},                 // green
	{4, color.RGBA{G: 255, B: 255}},         // cyan
	{5, color.RGBA{B: 255}},                 // blue
	{6, color.RGBA{R: 255, B: 255}},         // magenta
	{7, color.RGBA{R: 255, G: 255, B: 255}}, // white
	{8, color.RGBA{R: 128, G: 128, B: 128}}, // gray
}

// aciFromHex maps a layer's hex color to the nearest AutoCAD color
// index
func aciFromHex(hex string) int {
	c := plan.ParseHexColor(hex)

	best := 7
	bestDist := 1 << 30
	for _, entry := range aciPalette {
		dr := int(c.R) - int(entry.rgb.R)
		dg := int(c.G) - int(entry.rgb.G)
		db := int(c.B) - int(entry.rgb.B)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = entry.index
		}
	}
	return best
}
