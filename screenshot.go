package glyphswarm

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxLabelLen bounds the label part of a screenshot file name.
const maxLabelLen = 64

// screenshotQueue holds labels waiting for the end of the next Draw. The
// pixel buffer is reused across captures of the same size.
type screenshotQueue struct {
	dir    string
	labels []string
	seq    int
	pixels []byte
}

func (q *screenshotQueue) add(label string) {
	q.labels = append(q.labels, label)
}

// flush reads the frame once and writes one PNG per distinct queued label.
// It returns the paths written.
func (q *screenshotQueue) flush(screen *ebiten.Image) []string {
	if len(q.labels) == 0 {
		return nil
	}
	defer func() { q.labels = q.labels[:0] }()

	if err := os.MkdirAll(q.dir, 0o755); err != nil {
		logf("screenshot: mkdir %s: %v", q.dir, err)
		return nil
	}

	img := q.capture(screen)
	stamp := time.Now().Format("20060102_150405")
	var written []string
	seen := make(map[string]bool, len(q.labels))
	for _, label := range q.labels {
		name := sanitizeLabel(label)
		if seen[name] {
			continue
		}
		seen[name] = true
		q.seq++
		path := q.path(stamp, name)
		if err := writePNG(path, img); err != nil {
			logf("screenshot: %v", err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// path builds <dir>/<stamp>_<seq>_<label>.png. The sequence number keeps
// captures taken within the same second apart.
func (q *screenshotQueue) path(stamp, label string) string {
	return filepath.Join(q.dir, fmt.Sprintf("%s_%03d_%s.png", stamp, q.seq, label))
}

func (q *screenshotQueue) capture(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	if n := 4 * w * h; cap(q.pixels) < n {
		q.pixels = make([]byte, n)
	} else {
		q.pixels = q.pixels[:n]
	}
	screen.ReadPixels(q.pixels)
	return unpremultiply(q.pixels, w, h)
}

// unpremultiply converts premultiplied RGBA bytes to a straight-alpha image,
// rounding to the nearest value.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := min(len(pixels), len(img.Pix))
	for i := 0; i+3 < n; i += 4 {
		a := int(pixels[i+3])
		img.Pix[i+3] = uint8(a)
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := int(pixels[i+c])
			if a < 255 {
				v = min((v*255+a/2)/a, 255)
			}
			img.Pix[i+c] = uint8(v)
		}
	}
	return img
}

// writePNG encodes img to path through a temporary file, so a reader never
// sees a partial image.
func writePNG(path string, img image.Image) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', folds every other
// run of characters into one underscore and caps the length. Empty labels
// become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(min(len(label), maxLabelLen))
	under := false
	for _, r := range label {
		if b.Len() >= maxLabelLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
			under = false
		case !under:
			b.WriteByte('_')
			under = true
		}
	}
	return b.String()
}
