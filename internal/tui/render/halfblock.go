// Package render draws decoded images as terminal text using half-block cells.
package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// upperHalf paints the top pixel with the foreground and the bottom pixel
// with the background, so one cell carries two rows of the image.
const upperHalf = "▀"

// Fit returns the pixel size that fits an srcW x srcH image inside a
// cols x rows cell box (two pixels per cell vertically) without distortion.
func Fit(srcW, srcH, cols, rows int) (int, int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxW, maxH := cols, rows*2

	w := maxW
	h := srcH * maxW / srcW
	if h > maxH {
		h = maxH
		w = srcW * maxH / srcH
	}
	return max(w, 1), max(h, 1)
}

// HalfBlock renders img centered in a cols x rows box. Transparent pixels
// are blended over bg. Every returned line is exactly cols cells wide.
func HalfBlock(img image.Image, cols, rows int, bg lipgloss.Color) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), cols, rows)
	if w == 0 || h == 0 {
		return blank(cols, rows)
	}

	scaled := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	sb := scaled.Bounds()
	base := toColorful(bg)

	usedRows := (h + 1) / 2
	padTop := (rows - usedRows) / 2
	padLeft := (cols - w) / 2
	padRight := cols - w - padLeft

	lines := make([]string, 0, rows)
	for range padTop {
		lines = append(lines, strings.Repeat(" ", cols))
	}

	for y := 0; y < h; y += 2 {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", padLeft))
		for x := 0; x < w; x++ {
			top := blend(scaled.At(sb.Min.X+x, sb.Min.Y+y), base)
			bottom := base
			if y+1 < h {
				bottom = blend(scaled.At(sb.Min.X+x, sb.Min.Y+y+1), base)
			}
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex()))
			line.WriteString(cell.Render(upperHalf))
		}
		line.WriteString(strings.Repeat(" ", padRight))
		lines = append(lines, line.String())
	}

	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", cols))
	}
	return strings.Join(lines, "\n")
}

func blank(cols, rows int) string {
	line := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// blend composites c over base using c's alpha.
func blend(c color.Color, base colorful.Color) colorful.Color {
	_, _, _, a := c.RGBA()
	if a == 0 {
		return base
	}
	fg, _ := colorful.MakeColor(c)
	if a == 0xffff {
		return fg
	}
	return base.BlendRgb(fg, float64(a)/0xffff).Clamped()
}

func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}
