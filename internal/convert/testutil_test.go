package convert

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeCodec is an ImageCodec whose failures are keyed by input/output base name.
// Its maps must not be modified once a test starts converting.
type fakeCodec struct {
	decodeErr map[string]error
	encodeErr map[string]error
	panicOn   string        // base name whose decode panics
	hangOn    string        // base name whose decode blocks until release is closed
	delay     time.Duration // added to every decode
	release   chan struct{}
	hanging   chan struct{} // closed when a decode starts blocking on release, if set

	decodes   atomic.Int32
	encodes   atomic.Int32
	inFlight  atomic.Int32
	maxFlight atomic.Int32

	mu        sync.Mutex
	qualities []float64
}

func (c *fakeCodec) Decode(ctx context.Context, path string) (image.Image, error) {
	c.decodes.Add(1)
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		old := c.maxFlight.Load()
		if n <= old || c.maxFlight.CompareAndSwap(old, n) {
			break
		}
	}

	name := filepath.Base(path)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if name == c.panicOn {
		panic("corrupt chunk")
	}
	if name == c.hangOn {
		if c.hanging != nil {
			close(c.hanging)
		}
		<-c.release
	}
	if err, ok := c.decodeErr[name]; ok {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (c *fakeCodec) EncodeJPEG(ctx context.Context, img image.Image, opts JPEGEncodeOptions, path string) error {
	c.encodes.Add(1)
	c.mu.Lock()
	c.qualities = append(c.qualities, opts.Quality)
	c.mu.Unlock()

	if err, ok := c.encodeErr[filepath.Base(path)]; ok {
		return err
	}
	return os.WriteFile(path, []byte("jpeg"), 0o644)
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func filesIn(paths ...string) []ConvertibleFile {
	files := make([]ConvertibleFile, len(paths))
	for i, p := range paths {
		files[i] = ConvertibleFile{Path: p}
	}
	return files
}

func basenames(files []ConvertibleFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f.Path)
	}
	sort.Strings(names)
	return names
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
