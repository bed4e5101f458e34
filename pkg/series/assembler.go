package series

import (
	"fmt"

	"ctvolume/internal/models"
)

// assemble stacks ordered slices into one contiguous RawVolume. Every
// slice must share the shape of the first; a mismatch aborts assembly
// naming the offending slice index and both shapes.
func assemble(slices []*models.Slice) (*models.RawVolume, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("%w: no slices to assemble", ErrMalformedSeries)
	}

	rows, cols := slices[0].Rows, slices[0].Cols
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: slice 0 has degenerate shape %dx%d", ErrMalformedSeries, rows, cols)
	}

	raw := &models.RawVolume{
		Data:   make([]int16, len(slices)*rows*cols),
		Slices: len(slices),
		Rows:   rows,
		Cols:   cols,
	}

	for i, s := range slices {
		if s.Rows != rows || s.Cols != cols {
			return nil, fmt.Errorf("%w: slice %d has shape %dx%d, expected %dx%d",
				ErrMalformedSeries, i, s.Rows, s.Cols, rows, cols)
		}
		copy(raw.SliceData(i), s.Pixels)
	}

	return raw, nil
}
