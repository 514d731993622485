// Package render converts a state snapshot into a monochrome frame for the
// physical display.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Frame is a fixed-size 1-bit frame buffer. A set bit is white, a cleared
// bit is ink. Frame implements image.Image and draw.Image, so it can be
// handed to a periph.io display driver or encoded to PNG as-is. Frames are
// produced fresh on every render and must not be mutated after Render
// returns; ownership passes to the display sink.
type Frame struct {
	width  int
	height int
	stride int
	pix    []byte
}

// NewFrame returns a white frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	stride := (width + 7) / 8
	pix := make([]byte, stride*height)
	for i := range pix {
		pix[i] = 0xFF
	}
	return &Frame{width: width, height: height, stride: stride, pix: pix}
}

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

// Pix exposes the packed 1bpp buffer, one row per stride bytes, MSB first.
// Callers must treat it as read-only.
func (f *Frame) Pix() []byte { return f.pix }

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.Gray{Y: 0xFF}
	}
	if f.pix[y*f.stride+x/8]&(0x80>>uint(x%8)) != 0 {
		return color.Gray{Y: 0xFF}
	}
	return color.Gray{Y: 0x00}
}

// Set implements draw.Image. Anything darker than mid gray becomes ink.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetPixel(x, y, color.GrayModel.Convert(c).(color.Gray).Y < 0x80)
}

// SetPixel sets or clears one ink pixel. Out-of-bounds writes are ignored.
func (f *Frame) SetPixel(x, y int, ink bool) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	mask := byte(0x80 >> uint(x%8))
	if ink {
		f.pix[y*f.stride+x/8] &^= mask
	} else {
		f.pix[y*f.stride+x/8] |= mask
	}
}

// HLine draws a horizontal ink line spanning [x0, x1) at row y.
func (f *Frame) HLine(x0, x1, y int) {
	for x := x0; x < x1; x++ {
		f.SetPixel(x, y, true)
	}
}

// Rect outlines the rectangle r with ink.
func (f *Frame) Rect(r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		f.SetPixel(x, r.Min.Y, true)
		f.SetPixel(x, r.Max.Y-1, true)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		f.SetPixel(r.Min.X, y, true)
		f.SetPixel(r.Max.X-1, y, true)
	}
}

// FillRect fills the rectangle r with ink.
func (f *Frame) FillRect(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetPixel(x, y, true)
		}
	}
}

// DrawString draws s with the fixed 7x13 face, baseline at (x, y).
func (f *Frame) DrawString(x, y int, s string) {
	d := &font.Drawer{
		Dst:  f,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Rotated180 returns a copy of the frame rotated by half a turn, for panels
// mounted upside down.
func (f *Frame) Rotated180() *Frame {
	r := NewFrame(f.width, f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.pix[y*f.stride+x/8]&(0x80>>uint(x%8)) == 0 {
				r.SetPixel(f.width-1-x, f.height-1-y, true)
			}
		}
	}
	return r
}
