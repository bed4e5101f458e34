package visualization

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// jpegQuality matches the usual archival-preview quality setting.
const jpegQuality = 90

// SaveImage encodes an image to the given path, choosing the codec from
// the file extension (.png or .jpg/.jpeg).
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	return fmt.Errorf("unsupported image extension %q", filepath.Ext(filename))
}

// ExportWindowed writes every slice of the current display volume into
// outputDir as {index}_hu.<format>, creating the directory if needed.
// Format is "png" or "jpg".
func (v *Viewer) ExportWindowed(outputDir, format string) error {
	if v.display == nil {
		return fmt.Errorf("no display volume: apply a window first")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %v", outputDir, err)
	}

	for i := 0; i < v.display.Slices; i++ {
		img, err := v.DisplayImage(i)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("%d_hu.%s", i, format))
		if err := SaveImage(img, filename); err != nil {
			return fmt.Errorf("saving slice %d: %v", i, err)
		}
	}

	return nil
}
