// Package visualization renders raw and windowed volume slices as
// images and exports them to standard raster files. It is the
// presentation boundary: nothing here feeds back into the volume
// pipeline.
package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	xdraw "golang.org/x/image/draw"

	"ctvolume/internal/models"
)

// Mode selects what Render draws for a slice index.
type Mode string

const (
	// ModeOriginal renders the raw detector data.
	ModeOriginal Mode = "original"

	// ModeHU renders the current windowed display data.
	ModeHU Mode = "hu"

	// ModeBoth renders raw and windowed side by side.
	ModeBoth Mode = "both"
)

// ErrUnsupportedMode indicates a display-mode selector outside
// original/hu/both.
var ErrUnsupportedMode = errors.New("unsupported display mode")

// ParseMode validates a display-mode selector.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeOriginal:
		return ModeOriginal, nil
	case ModeHU:
		return ModeHU, nil
	case ModeBoth:
		return ModeBoth, nil
	}
	return "", fmt.Errorf("%w: %q (expected original, hu or both)", ErrUnsupportedMode, s)
}

// Viewer renders slices of a raw volume and its current display volume.
type Viewer struct {
	raw     *models.RawVolume
	display *models.DisplayVolume

	// rawMax is the brightest raw value, used to normalize raw slices
	// into the 16-bit gray range for rendering.
	rawMax int16
}

// NewViewer creates a viewer over a raw volume and an optional display
// volume. The display volume may be nil when only raw rendering is
// needed; ModeHU and ModeBoth then fail.
func NewViewer(raw *models.RawVolume, display *models.DisplayVolume) *Viewer {
	v := &Viewer{raw: raw, display: display, rawMax: 1}
	for _, val := range raw.Data {
		if val > v.rawMax {
			v.rawMax = val
		}
	}
	return v
}

// RawImage renders the raw slice at the given index as a 16-bit
// grayscale image. Negative raw values (air, padding) render black;
// positive values are scaled so the brightest value in the volume maps
// to white, keeping relative contrast across slices.
func (v *Viewer) RawImage(index int) (image.Image, error) {
	if index < 0 || index >= v.raw.Slices {
		return nil, fmt.Errorf("slice index %d out of range [0,%d)", index, v.raw.Slices)
	}

	img := image.NewGray16(image.Rect(0, 0, v.raw.Cols, v.raw.Rows))
	data := v.raw.SliceData(index)
	for i, val := range data {
		if val < 0 {
			val = 0
		}
		y := uint16(uint32(val) * 65535 / uint32(v.rawMax))
		img.SetGray16(i%v.raw.Cols, i/v.raw.Cols, color.Gray16{Y: y})
	}
	return img, nil
}

// DisplayImage renders the windowed slice at the given index as an
// 8-bit grayscale image.
func (v *Viewer) DisplayImage(index int) (image.Image, error) {
	if v.display == nil {
		return nil, fmt.Errorf("no display volume: apply a window first")
	}
	if index < 0 || index >= v.display.Slices {
		return nil, fmt.Errorf("slice index %d out of range [0,%d)", index, v.display.Slices)
	}

	img := image.NewGray(image.Rect(0, 0, v.display.Cols, v.display.Rows))
	copy(img.Pix, v.display.SliceData(index))
	return img, nil
}

// Render draws the slice at the given index according to the mode.
// ModeBoth places the raw rendition on the left and the windowed one on
// the right.
func (v *Viewer) Render(mode Mode, index int) (image.Image, error) {
	switch mode {
	case ModeOriginal:
		return v.RawImage(index)
	case ModeHU:
		return v.DisplayImage(index)
	case ModeBoth:
		left, err := v.RawImage(index)
		if err != nil {
			return nil, err
		}
		right, err := v.DisplayImage(index)
		if err != nil {
			return nil, err
		}
		return sideBySide(left, right), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
}

// sideBySide composes two equally tall images onto one canvas.
func sideBySide(left, right image.Image) image.Image {
	lb, rb := left.Bounds(), right.Bounds()
	h := lb.Dy()
	if rb.Dy() > h {
		h = rb.Dy()
	}
	canvas := image.NewGray16(image.Rect(0, 0, lb.Dx()+rb.Dx(), h))
	xdraw.Draw(canvas, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, xdraw.Src)
	xdraw.Draw(canvas, image.Rect(lb.Dx(), 0, lb.Dx()+rb.Dx(), rb.Dy()), right, rb.Min, xdraw.Src)
	return canvas
}
