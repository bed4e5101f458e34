// Package window maps calibrated HU volumes onto the 8-bit display range
// via a clamped linear transform, the standard radiology "windowing"
// contrast stretch.
package window

import (
	"errors"
	"fmt"

	"ctvolume/internal/models"
)

// ErrInvalidParameter indicates a non-positive window width. A zero
// width would make the transform a divide-by-zero; rather than
// substituting an epsilon denominator the transform rejects it outright.
var ErrInvalidParameter = errors.New("invalid window parameter")

// Params describes one display window.
type Params struct {
	// Center is the HU value mapped to the middle of the display range.
	Center float64

	// Width is the HU span mapped onto [0,255]. Must be positive.
	Width float64

	// HalfUnitBias shifts both window bounds up by 0.5 HU. This is a
	// display-rounding convention, paired with truncation it behaves
	// like round-half-up at the window edges. Either convention is
	// valid as long as it is applied consistently.
	HalfUnitBias bool
}

// Bounds returns the effective (minVal, maxVal) HU bounds of the window.
func (p Params) Bounds() (float64, float64) {
	minVal := p.Center - p.Width/2
	maxVal := p.Center + p.Width/2
	if p.HalfUnitBias {
		minVal += 0.5
		maxVal += 0.5
	}
	return minVal, maxVal
}

// Apply produces a new DisplayVolume from an HU volume and window
// parameters. Every element is mapped by
//
//	clamp((v - minVal) / (maxVal - minVal) * 255, 0, 255)
//
// truncated toward zero to an integer. The transform is pure: the input
// volume is never mutated, identical inputs yield identical outputs, and
// the mapping is monotonic in the input value. No clinical validation of
// the parameters is performed beyond Width > 0; unconventional windows
// simply saturate.
func Apply(hu *models.HUVolume, p Params) (*models.DisplayVolume, error) {
	if p.Width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive, got %v", ErrInvalidParameter, p.Width)
	}

	minVal, maxVal := p.Bounds()
	span := maxVal - minVal

	out := &models.DisplayVolume{
		Data:   make([]uint8, len(hu.Data)),
		Slices: hu.Slices,
		Rows:   hu.Rows,
		Cols:   hu.Cols,
	}

	for i, v := range hu.Data {
		scaled := int((float64(v) - minVal) / span * 255)
		if scaled < 0 {
			scaled = 0
		} else if scaled > 255 {
			scaled = 255
		}
		out.Data[i] = uint8(scaled)
	}

	return out, nil
}
