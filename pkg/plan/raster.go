package plan

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Background is the canvas color of rasterized plans
var Background = color.RGBA{R: 15, G: 18, B: 25, A: 255}

// Rasterize replays a draw list onto a CPU image. Used by the Fyne
// preview and the PNG export command; the raylib viewer draws the same
// list on the GPU instead.
func Rasterize(list DrawList, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	for _, line := range list.Radiations {
		drawLine(img, line)
	}
	for _, line := range list.Segments {
		drawLine(img, line)
	}
	if list.AnchorRing != nil {
		drawRing(img, *list.AnchorRing)
	}
	for _, marker := range list.Markers {
		drawDisc(img, marker.Center.X, marker.Center.Y, marker.Radius, marker.Fill)
	}
	for _, label := range list.Labels {
		drawText(img, label)
	}

	return img
}

const dashLength = 6.0

// drawLine walks the segment in unit steps stamping a disc of the
// stroke's half-width, skipping the gaps when dashed
func drawLine(img *image.RGBA, line Line) {
	delta := line.To.Sub(line.From)
	length := delta.Length()
	if length == 0 {
		return
	}
	dir := delta.Mul(1.0 / length)
	radius := line.Width / 2

	for t := 0.0; t <= length; t += 1.0 {
		if line.Dashed && int(t/dashLength)%2 == 1 {
			continue
		}
		p := line.From.Add(dir.Mul(t))
		drawDisc(img, p.X, p.Y, radius, line.Color)
	}
}

func drawDisc(img *image.RGBA, cx, cy, radius float64, col color.RGBA) {
	if radius < 0.5 {
		radius = 0.5
	}
	minX := int(math.Floor(cx - radius))
	maxX := int(math.Ceil(cx + radius))
	minY := int(math.Floor(cy - radius))
	maxY := int(math.Ceil(cy + radius))

	bounds := img.Bounds()
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func drawRing(img *image.RGBA, marker Marker) {
	steps := int(2 * math.Pi * marker.Radius)
	if steps < 16 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := marker.Center.X + marker.Radius*math.Cos(angle)
		y := marker.Center.Y + marker.Radius*math.Sin(angle)
		drawDisc(img, x, y, 1, marker.Fill)
	}
}

func drawText(img *image.RGBA, label Label) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: label.Color},
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(int(label.Pos.X)),
			Y: fixed.I(int(label.Pos.Y)),
		},
	}
	drawer.DrawString(label.Text)
}
