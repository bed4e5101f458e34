package series

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ctvolume/internal/models"
	"ctvolume/pkg/hounsfield"
	"ctvolume/pkg/window"
)

// stubDecoder serves pre-built slices keyed by base filename, standing
// in for the DICOM decoder.
type stubDecoder struct {
	slices map[string]*models.Slice
	fail   map[string]error
}

func (d *stubDecoder) Decode(path string) (*models.Slice, error) {
	name := filepath.Base(path)
	if err, ok := d.fail[name]; ok {
		return nil, err
	}
	s, ok := d.slices[name]
	if !ok {
		return nil, fmt.Errorf("stub: no slice for %s", name)
	}
	// Copy so tests can reuse the decoder across loads.
	out := *s
	out.Filename = path
	return &out, nil
}

// testSlice builds a 2x2 slice at the given z position.
func testSlice(z float64, pixels []int16) *models.Slice {
	return &models.Slice{
		Pixels:           pixels,
		Rows:             2,
		Cols:             2,
		RescaleSlope:     1,
		RescaleIntercept: -1024,
		HasCalibration:   true,
		Position:         [3]float64{0, 0, z},
		HasPosition:      true,
	}
}

// writeSeriesDir creates a directory of empty .dcm files for the stub
// decoder to "decode".
func writeSeriesDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("failed to create test file %s: %v", name, err)
		}
	}
	return dir
}

// TestLoadSingleFile verifies a file path yields a one-slice series.
func TestLoadSingleFile(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm")
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(0, []int16{1, 2, 3, 4}),
	}}

	s, err := Load(filepath.Join(dir, "a.dcm"), "", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := s.Raw().Data; len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("raw volume = %v, want [1 2 3 4]", got)
	}
}

// TestLoadDirectoryOrdering verifies slices load in descending z order
// regardless of filename order.
func TestLoadDirectoryOrdering(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm", "b.dcm", "c.dcm", "ignored.txt")
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(-12.5, []int16{1, 1, 1, 1}),
		"b.dcm": testSlice(30, []int16{2, 2, 2, 2}),
		"c.dcm": testSlice(5.25, []int16{3, 3, 3, 3}),
	}}

	s, err := Load(dir, ".dcm", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (non-matching files must be skipped)", s.Len())
	}

	prev := s.Slice(0).Position[2]
	for i := 1; i < s.Len(); i++ {
		z := s.Slice(i).Position[2]
		if z > prev {
			t.Errorf("slice %d has z %v after %v; order must be non-increasing", i, z, prev)
		}
		prev = z
	}

	// Index 0 is the slice with the greatest z, and the raw volume is
	// stacked in that order.
	if s.Slice(0).Position[2] != 30 {
		t.Errorf("first slice z = %v, want 30", s.Slice(0).Position[2])
	}
	if got := s.Raw().SliceData(0)[0]; got != 2 {
		t.Errorf("raw slice 0 pixel = %d, want 2 (from the z=30 slice)", got)
	}
	if got := s.Raw().SliceData(2)[0]; got != 1 {
		t.Errorf("raw slice 2 pixel = %d, want 1 (from the z=-12.5 slice)", got)
	}
}

// TestLoadInvalidPath verifies the typed error for a nonexistent path.
func TestLoadInvalidPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), "", &stubDecoder{})
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("error %v is not ErrInvalidPath", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error %q does not name the path", err)
	}
}

// TestLoadEmptyDirectory verifies an empty match set is a malformed
// series, not a silently empty volume.
func TestLoadEmptyDirectory(t *testing.T) {
	dir := writeSeriesDir(t, "notes.txt")
	_, err := Load(dir, ".dcm", &stubDecoder{})
	if err == nil {
		t.Fatal("expected error for directory with no matching files")
	}
	if !errors.Is(err, ErrMalformedSeries) {
		t.Errorf("error %v is not ErrMalformedSeries", err)
	}
}

// TestLoadDecodeFailureFailsWholeBatch verifies one bad file fails the
// load and the error carries both the series path and the cause.
func TestLoadDecodeFailureFailsWholeBatch(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm", "b.dcm")
	cause := errors.New("truncated header")
	dec := &stubDecoder{
		slices: map[string]*models.Slice{"a.dcm": testSlice(1, []int16{0, 0, 0, 0})},
		fail:   map[string]error{"b.dcm": cause},
	}

	_, err := Load(dir, ".dcm", dec)
	if err == nil {
		t.Fatal("expected error when one file fails to decode")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap the decode cause", err)
	}
	if !strings.Contains(err.Error(), dir) {
		t.Errorf("error %q does not name the series path", err)
	}
}

// TestLoadMissingPosition verifies absent ordering metadata aborts the
// load instead of falling back to filesystem order.
func TestLoadMissingPosition(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm", "b.dcm")
	noPos := testSlice(0, []int16{0, 0, 0, 0})
	noPos.HasPosition = false
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(1, []int16{0, 0, 0, 0}),
		"b.dcm": noPos,
	}}

	_, err := Load(dir, ".dcm", dec)
	if err == nil {
		t.Fatal("expected error for missing image position")
	}
	if !errors.Is(err, ErrMalformedSeries) {
		t.Errorf("error %v is not ErrMalformedSeries", err)
	}
}

// TestLoadShapeMismatch verifies assembly fails naming the offending
// slice index and both shapes.
func TestLoadShapeMismatch(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm", "b.dcm")
	odd := &models.Slice{
		Pixels:         []int16{0, 0, 0, 0, 0, 0},
		Rows:           2,
		Cols:           3,
		HasCalibration: true,
		Position:       [3]float64{0, 0, -1},
		HasPosition:    true,
	}
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(1, []int16{0, 0, 0, 0}),
		"b.dcm": odd,
	}}

	_, err := Load(dir, ".dcm", dec)
	if err == nil {
		t.Fatal("expected error for mismatched slice shapes")
	}
	if !errors.Is(err, ErrMalformedSeries) {
		t.Errorf("error %v is not ErrMalformedSeries", err)
	}
	if !strings.Contains(err.Error(), "slice 1") || !strings.Contains(err.Error(), "2x3") {
		t.Errorf("error %q does not name the offending index and shape", err)
	}
}

// TestSeriesHU verifies HU derivation through the Series and its
// caching.
func TestSeriesHU(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm")
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(0, []int16{-2048, 0, 100, 2048}),
	}}

	s, err := Load(filepath.Join(dir, "a.dcm"), "", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	hu, err := s.HU()
	if err != nil {
		t.Fatalf("HU failed: %v", err)
	}
	want := []int16{-1024, -1024, -924, 1024}
	for i, got := range hu.Data {
		if got != want[i] {
			t.Errorf("hu.Data[%d] = %d, want %d", i, got, want[i])
		}
	}

	again, err := s.HU()
	if err != nil {
		t.Fatalf("second HU failed: %v", err)
	}
	if again != hu {
		t.Error("HU volume re-derived instead of cached")
	}
}

// TestSeriesHUMissingCalibration verifies the converter error surfaces
// through the Series.
func TestSeriesHUMissingCalibration(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm")
	bad := testSlice(0, []int16{0, 0, 0, 0})
	bad.HasCalibration = false
	dec := &stubDecoder{slices: map[string]*models.Slice{"a.dcm": bad}}

	s, err := Load(filepath.Join(dir, "a.dcm"), "", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := s.HU(); !errors.Is(err, hounsfield.ErrMissingCalibration) {
		t.Errorf("HU error %v is not ErrMissingCalibration", err)
	}
}

// TestSeriesSetWindow verifies the display volume is replaced, not
// accumulated, and earlier snapshots stay intact.
func TestSeriesSetWindow(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm")
	dec := &stubDecoder{slices: map[string]*models.Slice{
		"a.dcm": testSlice(0, []int16{1024, 1084, 1139, 3000}),
	}}

	s, err := Load(filepath.Join(dir, "a.dcm"), "", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Display() != nil {
		t.Fatal("Display() non-nil before any window applied")
	}

	soft, err := s.SetWindow(window.Params{Center: 60, Width: 350, HalfUnitBias: true})
	if err != nil {
		t.Fatalf("SetWindow failed: %v", err)
	}
	if s.Display() != soft {
		t.Error("Display() does not return the applied window")
	}
	softSnapshot := append([]uint8(nil), soft.Data...)

	bone, err := s.SetWindow(window.Params{Center: 300, Width: 1500, HalfUnitBias: true})
	if err != nil {
		t.Fatalf("second SetWindow failed: %v", err)
	}
	if s.Display() != bone {
		t.Error("Display() not replaced by the new window")
	}
	if bone == soft {
		t.Error("SetWindow reused the previous display volume")
	}
	for i, v := range soft.Data {
		if v != softSnapshot[i] {
			t.Errorf("earlier display snapshot mutated at %d", i)
		}
	}

	if _, err := s.SetWindow(window.Params{Center: 60, Width: 0}); err == nil {
		t.Error("SetWindow accepted a zero width")
	}
}

// TestSeriesSummary verifies the operator summary carries the identity
// and calibration metadata of the first slice.
func TestSeriesSummary(t *testing.T) {
	dir := writeSeriesDir(t, "a.dcm")
	sl := testSlice(0, []int16{0, 0, 0, 0})
	sl.PatientName = "DOE^JANE"
	sl.PatientID = "P123"
	sl.Thickness = 2.5
	dec := &stubDecoder{slices: map[string]*models.Slice{"a.dcm": sl}}

	s, err := Load(filepath.Join(dir, "a.dcm"), "", dec)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	summary := s.Summary()
	for _, want := range []string{"DOE^JANE", "P123", "2.5", "RescaleIntercept"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() missing %q:\n%s", want, summary)
		}
	}
}
