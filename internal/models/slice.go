package models

// Slice represents a single decoded CT cross-section with the metadata
// needed for volume assembly, calibration and display.
type Slice struct {
	// Pixels is the raw detector data in row-major order, Rows*Cols long.
	// Stored as int16 so both the detector range and the -2048 padding
	// sentinel fit without overflow.
	Pixels []int16

	// Rows and Cols are the slice dimensions in pixels.
	Rows int
	Cols int

	// Filename is the original filename of the slice.
	Filename string

	// RescaleSlope and RescaleIntercept are the per-acquisition linear
	// calibration constants converting raw stored values to Hounsfield
	// Units. HasCalibration reports whether both were present and numeric
	// in the source file.
	RescaleSlope     float64
	RescaleIntercept float64
	HasCalibration   bool

	// Position is the ImagePositionPatient triplet (x, y, z) in mm.
	// The z component establishes the canonical slice ordering.
	// HasPosition reports whether the triplet was present and numeric.
	Position    [3]float64
	HasPosition bool

	// PixelSpacing is the physical (row, column) pixel pitch in mm.
	PixelSpacing [2]float64

	// Thickness is the physical thickness of the slice in mm.
	Thickness float64

	// Identity metadata, carried through unmodified for presentation
	// and audit purposes only.
	PatientName string
	PatientID   string
	PatientSex  string
	StudyID     string

	// WindowCenter and WindowWidth are the scanner-suggested display
	// window preset, if any.
	WindowCenter float64
	WindowWidth  float64
}

// At returns the raw pixel value at the given row and column.
func (s *Slice) At(row, col int) int16 {
	return s.Pixels[row*s.Cols+col]
}
