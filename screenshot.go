package bough

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultScreenshotDir is where Graph.Screenshot writes PNG files unless
// Graph.ScreenshotDir is set.
const DefaultScreenshotDir = "screenshots"

// Screenshot queues a labeled capture of the next drawn frame. Files are
// named <timestamp>_<label>.png inside ScreenshotDir.
func (g *Graph) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

func (g *Graph) screenshotDir() string {
	if g.ScreenshotDir == "" {
		return DefaultScreenshotDir
	}
	return g.ScreenshotDir
}

// flushScreenshots writes every queued capture from screen. Failures are
// logged; the queue is emptied either way.
func (g *Graph) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	labels := g.screenshotQueue
	g.screenshotQueue = nil

	dir := g.screenshotDir()
	paths := screenshotPaths(dir, time.Now(), labels)
	if err := writeScreenshots(dir, captureFrame(screen), paths); err != nil {
		Logger().Error("screenshot failed", "dir", dir, "err", err)
		return
	}
	Logger().Debug("screenshots written", "dir", dir, "count", len(paths))
}

// captureFrame reads screen back. ebiten pixels are premultiplied, which is
// exactly the layout of image.RGBA; png.Encode un-premultiplies on write.
func captureFrame(screen *ebiten.Image) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, screen.Bounds().Dx(), screen.Bounds().Dy()))
	screen.ReadPixels(img.Pix)
	return img
}

// screenshotPaths maps labels to file paths sharing one timestamp. A label
// repeated within the same frame gets a numeric suffix.
func screenshotPaths(dir string, at time.Time, labels []string) []string {
	stamp := at.Format("20060102_150405")
	seen := make(map[string]int, len(labels))
	paths := make([]string, 0, len(labels))
	for _, label := range labels {
		name := sanitizeLabel(label)
		seen[name]++
		if n := seen[name]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		paths = append(paths, filepath.Join(dir, stamp+"_"+name+".png"))
	}
	return paths
}

func writeScreenshots(dir string, img image.Image, paths []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	var errs []error
	for _, p := range paths {
		errs = append(errs, writePNG(p, img))
	}
	return errors.Join(errs...)
}

// writePNG encodes img to a new file at path.
func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', replacing
// anything else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
