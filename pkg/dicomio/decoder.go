// Package dicomio decodes single DICOM files into slice records.
// It wraps the suyashkumar/dicom parser and is the only package that
// knows about the DICOM container format; everything downstream works
// on plain slice and volume records.
package dicomio

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"ctvolume/internal/models"
)

// ErrDecode indicates that the underlying DICOM parser rejected a file.
// Errors wrapping it always name the offending file.
var ErrDecode = errors.New("dicom decode failure")

// Decoder reads DICOM files from disk and produces Slice records.
// The zero value is ready to use.
type Decoder struct{}

// NewDecoder creates a new DICOM file decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a single DICOM file and extracts the pixel grid plus the
// metadata the pipeline needs. Calibration and spatial position are
// extracted best-effort: their absence is recorded on the Slice rather
// than failing the decode, so the loader and converter can report which
// slice index is missing what.
func (d *Decoder) Decode(path string) (*models.Slice, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	slice := &models.Slice{Filename: path}

	if err := extractPixels(&ds, slice); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	// Calibration constants. Both must be present and numeric for the
	// slice to count as calibrated.
	slope, okSlope := floatValue(&ds, tag.RescaleSlope)
	intercept, okIntercept := floatValue(&ds, tag.RescaleIntercept)
	if okSlope && okIntercept {
		slice.RescaleSlope = slope
		slice.RescaleIntercept = intercept
		slice.HasCalibration = true
	}

	// Spatial position. The z component drives series ordering.
	if pos, ok := floatValues(&ds, tag.ImagePositionPatient, 3); ok {
		copy(slice.Position[:], pos)
		slice.HasPosition = true
	}

	if spacing, ok := floatValues(&ds, tag.PixelSpacing, 2); ok {
		copy(slice.PixelSpacing[:], spacing)
	}
	if thickness, ok := floatValue(&ds, tag.SliceThickness); ok {
		slice.Thickness = thickness
	}
	if center, ok := floatValue(&ds, tag.WindowCenter); ok {
		slice.WindowCenter = center
	}
	if width, ok := floatValue(&ds, tag.WindowWidth); ok {
		slice.WindowWidth = width
	}

	slice.PatientName = stringValue(&ds, tag.PatientName)
	slice.PatientID = stringValue(&ds, tag.PatientID)
	slice.PatientSex = stringValue(&ds, tag.PatientSex)
	slice.StudyID = stringValue(&ds, tag.StudyID)

	return slice, nil
}

// extractPixels pulls the first frame of the PixelData element into the
// slice record as int16, row-major.
func extractPixels(ds *dicom.Dataset, slice *models.Slice) error {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return fmt.Errorf("no pixel data element: %v", err)
	}

	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return errors.New("pixel data contains no frames")
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return fmt.Errorf("unsupported pixel data encoding: %v", err)
	}

	slice.Rows = native.Rows
	slice.Cols = native.Cols
	slice.Pixels = make([]int16, len(native.Data))
	for i, sample := range native.Data {
		// One sample per pixel for grayscale CT data.
		slice.Pixels[i] = int16(sample[0])
	}

	if len(slice.Pixels) != slice.Rows*slice.Cols {
		return fmt.Errorf("pixel count %d does not match %dx%d grid",
			len(slice.Pixels), slice.Rows, slice.Cols)
	}

	return nil
}

// floatValue reads a single numeric value from a dataset element. DICOM
// stores most numeric attributes as decimal strings, so both string and
// integer representations are accepted.
func floatValue(ds *dicom.Dataset, t tag.Tag) (float64, bool) {
	vals, ok := floatValues(ds, t, 1)
	if !ok {
		return 0, false
	}
	return vals[0], true
}

// floatValues reads at least n numeric values from a dataset element,
// returning false if the element is absent, too short, or non-numeric.
func floatValues(ds *dicom.Dataset, t tag.Tag, n int) ([]float64, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, false
	}

	switch v := el.Value.GetValue().(type) {
	case []string:
		if len(v) < n {
			return nil, false
		}
		out := make([]float64, len(v))
		for i, s := range v {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []int:
		if len(v) < n {
			return nil, false
		}
		out := make([]float64, len(v))
		for i, d := range v {
			out[i] = float64(d)
		}
		return out, true
	case []float64:
		if len(v) < n {
			return nil, false
		}
		return v, true
	}

	return nil, false
}

// stringValue reads the first string value of a dataset element, or ""
// when the element is absent.
func stringValue(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	if v, ok := el.Value.GetValue().([]string); ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
