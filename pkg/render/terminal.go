package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer onto a terminal screen using half blocks:
// each cell shows two pixel rows, the upper as foreground of ▀ and the
// lower as background. The framebuffer should be twice as tall as area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	top := fb.Height() - 1 // window row 0 is the bottom of the image

	for row := area.Min.Y; row < area.Max.Y; row++ {
		upper := top - (row-area.Min.Y)*2
		lower := upper - 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width() {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, upper)),
					Bg: cellColor(fb.GetPixel(x, lower)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
