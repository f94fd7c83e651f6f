package export

import (
	"encoding/json"
	"fmt"
	"os"

	"partify/internal/framecache"
	"partify/internal/settings"
)

// ManifestEntry describes one written frame.
type ManifestEntry struct {
	Index   int    `json:"index"`
	Image   string `json:"image"`
	DelayMS int64  `json:"delay_ms"`
	// Bounds of the frame's visible pixels on the uncropped canvas.
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Manifest accompanies a directory of per-frame images.
type Manifest struct {
	Name     string            `json:"name"`
	Settings settings.Settings `json:"settings"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Frames   []ManifestEntry   `json:"frames"`
}

// FrameFile is the file name used for frame i.
func FrameFile(base string, i int) string {
	return fmt.Sprintf("%s-%02d.png", base, i)
}

// NewManifest describes data as written with FrameFile names.
func NewManifest(data *framecache.Data) Manifest {
	base := BaseName(data.Settings)
	m := Manifest{
		Name:     base,
		Settings: data.Settings,
		Width:    data.Crop.Width(),
		Height:   data.Crop.Height(),
		Frames:   make([]ManifestEntry, data.Len()),
	}
	for i, b := range data.Bounds {
		m.Frames[i] = ManifestEntry{
			Index:   i,
			Image:   FrameFile(base, i),
			DelayMS: FrameDelay.Milliseconds(),
			Top:     b.Top,
			Left:    b.Left,
			Right:   b.Right,
			Bottom:  b.Bottom,
		}
	}
	return m
}

// WriteManifest writes the manifest for data to path.
func WriteManifest(path string, data *framecache.Data) error {
	out, err := json.MarshalIndent(NewManifest(data), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
