package models

// RawVolume is the stacked detector data for a whole series, before any
// calibration. Data is a flat array in slice-major, row-major order:
// Data[z*Rows*Cols + y*Cols + x].
type RawVolume struct {
	Data []int16

	// Slices, Rows and Cols are the volume dimensions.
	Slices int
	Rows   int
	Cols   int
}

// HUVolume is the calibrated volume in Hounsfield Units, same shape and
// layout as the RawVolume it was derived from. Derived once; read-only
// afterward.
type HUVolume struct {
	Data []int16

	Slices int
	Rows   int
	Cols   int
}

// DisplayVolume is an 8-bit windowed rendition of an HUVolume, same shape
// and layout. It is replaced wholesale each time a new window is applied.
type DisplayVolume struct {
	Data []uint8

	Slices int
	Rows   int
	Cols   int
}

// At returns the raw value at slice z, row y, column x.
func (v *RawVolume) At(z, y, x int) int16 {
	return v.Data[z*v.Rows*v.Cols+y*v.Cols+x]
}

// SliceData returns the flat pixel data of slice z. The returned slice
// aliases the volume's backing array.
func (v *RawVolume) SliceData(z int) []int16 {
	n := v.Rows * v.Cols
	return v.Data[z*n : (z+1)*n]
}

// At returns the calibrated value at slice z, row y, column x.
func (v *HUVolume) At(z, y, x int) int16 {
	return v.Data[z*v.Rows*v.Cols+y*v.Cols+x]
}

// SliceData returns the flat HU data of slice z. The returned slice
// aliases the volume's backing array.
func (v *HUVolume) SliceData(z int) []int16 {
	n := v.Rows * v.Cols
	return v.Data[z*n : (z+1)*n]
}

// At returns the display value at slice z, row y, column x.
func (v *DisplayVolume) At(z, y, x int) uint8 {
	return v.Data[z*v.Rows*v.Cols+y*v.Cols+x]
}

// SliceData returns the flat display data of slice z. The returned slice
// aliases the volume's backing array.
func (v *DisplayVolume) SliceData(z int) []uint8 {
	n := v.Rows * v.Cols
	return v.Data[z*n : (z+1)*n]
}
