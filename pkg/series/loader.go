// Package series loads DICOM slice files into an ordered Series and
// assembles them into the volumes the rest of the pipeline works on.
package series

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ctvolume/internal/models"
)

// DefaultExtension is the file extension matched when loading a series
// from a directory.
const DefaultExtension = ".dcm"

var (
	// ErrInvalidPath indicates the input path is neither an existing
	// file nor a directory.
	ErrInvalidPath = errors.New("invalid input path")

	// ErrMalformedSeries indicates the loaded files cannot form a valid
	// series: no matching files, missing ordering metadata, or
	// mismatched slice shapes.
	ErrMalformedSeries = errors.New("malformed series")
)

// Decoder decodes one DICOM file into a Slice record. Implemented by
// dicomio.Decoder; tests substitute in-memory decoders.
type Decoder interface {
	Decode(path string) (*models.Slice, error)
}

// Load builds a Series from the given path using the provided decoder.
//
// A file path yields a single-slice series. A directory path matches
// every file with the given extension (DefaultExtension when ext is
// empty), decodes them all, and orders the slices by descending z
// component of their image position. Any decode failure fails the whole
// load: a partial series would silently corrupt spatial ordering and
// calibration.
func Load(path string, ext string, dec Decoder) (*Series, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither a file nor a directory", ErrInvalidPath, path)
	}

	var files []string
	if info.IsDir() {
		files, err = matchFiles(path, ext)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w: no %s files found in directory %s", ErrMalformedSeries, ext, path)
		}
	} else {
		files = []string{path}
	}

	slices := make([]*models.Slice, 0, len(files))
	for _, f := range files {
		slice, err := dec.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("loading series from %s: %w", path, err)
		}
		slices = append(slices, slice)
	}

	// Ordering metadata is load-bearing: without it we would fall back
	// to filesystem order, which has no anatomical meaning.
	for i, s := range slices {
		if !s.HasPosition {
			return nil, fmt.Errorf("%w: slice %d (%s) has no numeric image position", ErrMalformedSeries, i, s.Filename)
		}
	}

	// Descending z: index 0 is the slice with the greatest z position.
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Position[2] > slices[j].Position[2]
	})

	raw, err := assemble(slices)
	if err != nil {
		return nil, err
	}

	return &Series{slices: slices, raw: raw}, nil
}

// matchFiles lists the files in dir carrying the given extension,
// case-insensitively, in name order.
func matchFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading directory %s: %v", ErrInvalidPath, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
