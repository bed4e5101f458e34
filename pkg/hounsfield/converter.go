// Package hounsfield converts raw detector volumes to calibrated
// Hounsfield Unit volumes using the per-slice rescale metadata supplied
// by the scanner.
package hounsfield

import (
	"errors"
	"fmt"

	"ctvolume/internal/models"
)

// PaddingValue is the conventional sentinel marking pixels outside the
// reconstruction circle. Such pixels are reset to zero before
// calibration, so they calibrate to exactly the rescale intercept.
const PaddingValue = -2048

// ErrMissingCalibration indicates a slice carried no numeric rescale
// slope or intercept. Calibration is never defaulted silently.
var ErrMissingCalibration = errors.New("missing rescale calibration")

// Convert derives the calibrated HU volume from a raw volume and the
// per-slice calibration metadata. The conversion is a pure function of
// its inputs: repeated calls yield bit-identical volumes.
//
// Per slice, when the slope is exactly 1 the conversion stays on the
// integer path (raw + intercept, intercept truncated toward zero). Any
// other slope goes through float64 and the result is narrowed back to
// int16 by Go's conversion rule, truncation toward zero.
func Convert(raw *models.RawVolume, slices []*models.Slice) (*models.HUVolume, error) {
	if len(slices) != raw.Slices {
		return nil, fmt.Errorf("calibration metadata for %d slices, volume has %d", len(slices), raw.Slices)
	}

	for i, s := range slices {
		if !s.HasCalibration {
			return nil, fmt.Errorf("%w: slice %d (%s)", ErrMissingCalibration, i, s.Filename)
		}
	}

	hu := &models.HUVolume{
		Data:   make([]int16, len(raw.Data)),
		Slices: raw.Slices,
		Rows:   raw.Rows,
		Cols:   raw.Cols,
	}

	// Padding correction is uniform across the whole volume, not
	// per-slice-conditional.
	for i, v := range raw.Data {
		if v == PaddingValue {
			hu.Data[i] = 0
		} else {
			hu.Data[i] = v
		}
	}

	for i, s := range slices {
		data := hu.SliceData(i)
		if s.RescaleSlope == 1 {
			intercept := int16(s.RescaleIntercept)
			for j := range data {
				data[j] += intercept
			}
			continue
		}
		for j := range data {
			data[j] = int16(s.RescaleSlope*float64(data[j]) + s.RescaleIntercept)
		}
	}

	return hu, nil
}
