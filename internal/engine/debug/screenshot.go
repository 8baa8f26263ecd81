// Package debug provides screenshots and on-screen debugging aids.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Snapshotter is a surface that can read back its last frame.
// softgpu.Surface and halgpu.Surface implement it.
type Snapshotter interface {
	Snapshot() *image.RGBA
}

// ScreenshotCapture writes frames as timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a capture writing to outputDir with the given
// file name prefix.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	if prefix == "" {
		prefix = "screenshot"
	}
	return &ScreenshotCapture{outputDir: outputDir, prefix: prefix, now: time.Now}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// GenerateFilename returns the path the next capture would use.
func (sc *ScreenshotCapture) GenerateFilename() string {
	name := fmt.Sprintf("%s_%s.png", sc.prefix, sc.now().Format("2006-01-02_15-04-05.000"))
	if sc.outputDir == "" {
		return name
	}
	return filepath.Join(sc.outputDir, name)
}

// Capture saves img under a generated name and returns the path.
func (sc *ScreenshotCapture) Capture(img image.Image) (string, error) {
	path := sc.GenerateFilename()
	if err := SavePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// CaptureSurface saves the last frame of s.
func (sc *ScreenshotCapture) CaptureSurface(s Snapshotter) (string, error) {
	img := s.Snapshot()
	if img == nil {
		return "", fmt.Errorf("screenshot: no frame presented yet")
	}
	return sc.Capture(img)
}

// SavePNG encodes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("screenshot: nil image")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
