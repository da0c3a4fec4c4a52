package bough

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-scroll", "after-scroll"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	g := NewGraph(Size{10, 10})
	g.Screenshot("a")
	g.Screenshot("b")
	g.Screenshot("c")
	if len(g.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(g.screenshotQueue))
	}
	if g.screenshotQueue[0] != "a" || g.screenshotQueue[1] != "b" || g.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", g.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	g := NewGraph(Size{10, 10})
	if got := g.screenshotDir(); got != DefaultScreenshotDir {
		t.Errorf("screenshotDir() = %q, want %q", got, DefaultScreenshotDir)
	}
	g.ScreenshotDir = "out"
	if got := g.screenshotDir(); got != "out" {
		t.Errorf("screenshotDir() = %q, want %q", got, "out")
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[3] = 255
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded size = %v, want 3x2", b)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if err := writePNG(filepath.Join(t.TempDir(), "missing", "shot.png"), img); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestScreenshotPaths(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	got := screenshotPaths("shots", at, []string{"menu", "after swipe", "menu", ""})
	want := []string{
		filepath.Join("shots", "20240309_140507_menu.png"),
		filepath.Join("shots", "20240309_140507_after_swipe.png"),
		filepath.Join("shots", "20240309_140507_menu_2.png"),
		filepath.Join("shots", "20240309_140507_unlabeled.png"),
	}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteScreenshotsCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	paths := screenshotPaths(dir, time.Now(), []string{"a", "b"})
	if err := writeScreenshots(dir, img, paths); err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}
