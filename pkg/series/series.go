package series

import (
	"fmt"
	"strings"

	"ctvolume/internal/models"
	"ctvolume/pkg/hounsfield"
	"ctvolume/pkg/window"
)

// Series is one ordered CT acquisition and the volumes derived from it.
// The raw volume is assembled at load time and immutable afterward; the
// HU volume is derived once on first request; the display volume is
// cached state for the most recently applied window and is replaced
// wholesale on each apply.
//
// A Series and its volumes form one unit of isolation: nothing is shared
// between Series instances, so independent Series may be processed
// concurrently. A single Series is not safe for concurrent use.
type Series struct {
	slices  []*models.Slice
	raw     *models.RawVolume
	hu      *models.HUVolume
	display *models.DisplayVolume
}

// Len returns the number of slices in the series.
func (s *Series) Len() int {
	return len(s.slices)
}

// Slice returns the slice record at the given index in series order.
func (s *Series) Slice(i int) *models.Slice {
	return s.slices[i]
}

// Raw returns the stacked, uncalibrated volume.
func (s *Series) Raw() *models.RawVolume {
	return s.raw
}

// HU returns the calibrated Hounsfield volume, deriving it on first
// call. The derivation is a pure function of the raw volume and the
// slice metadata, so the result is cached and reused. Missing
// calibration metadata fails the derivation on every call.
func (s *Series) HU() (*models.HUVolume, error) {
	if s.hu != nil {
		return s.hu, nil
	}
	hu, err := hounsfield.Convert(s.raw, s.slices)
	if err != nil {
		return nil, err
	}
	s.hu = hu
	return s.hu, nil
}

// SetWindow recomputes the display volume for the given window
// parameters, replacing any previously cached display volume. The
// returned volume is freshly allocated; callers holding a reference to
// an earlier display volume keep a consistent snapshot.
func (s *Series) SetWindow(p window.Params) (*models.DisplayVolume, error) {
	hu, err := s.HU()
	if err != nil {
		return nil, err
	}
	display, err := window.Apply(hu, p)
	if err != nil {
		return nil, err
	}
	s.display = display
	return display, nil
}

// Display returns the display volume for the most recently applied
// window, or nil when no window has been applied yet.
func (s *Series) Display() *models.DisplayVolume {
	return s.display
}

// Summary renders the identifying metadata of the series, taken from
// its first slice, for operator inspection.
func (s *Series) Summary() string {
	d := s.slices[0]
	var b strings.Builder
	fmt.Fprintf(&b, "PatientName:\t%s\n", d.PatientName)
	fmt.Fprintf(&b, "PatientID:\t%s\n", d.PatientID)
	fmt.Fprintf(&b, "PatientSex:\t%s\n", d.PatientSex)
	fmt.Fprintf(&b, "StudyID:\t%s\n", d.StudyID)
	fmt.Fprintf(&b, "Slices:\t%d\n", len(s.slices))
	fmt.Fprintf(&b, "Rows:\t%d\n", d.Rows)
	fmt.Fprintf(&b, "Columns:\t%d\n", d.Cols)
	fmt.Fprintf(&b, "SliceThickness:\t%g\n", d.Thickness)
	fmt.Fprintf(&b, "PixelSpacing:\t%g\\%g\n", d.PixelSpacing[0], d.PixelSpacing[1])
	fmt.Fprintf(&b, "WindowCenter:\t%g\n", d.WindowCenter)
	fmt.Fprintf(&b, "WindowWidth:\t%g\n", d.WindowWidth)
	fmt.Fprintf(&b, "RescaleIntercept:\t%g\n", d.RescaleIntercept)
	fmt.Fprintf(&b, "RescaleSlope:\t%g\n", d.RescaleSlope)
	return b.String()
}
