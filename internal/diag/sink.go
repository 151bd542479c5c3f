package diag

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"
)

const snapshotMaxWidth = 1024

// Sink captures page snapshots on failure paths for post-hoc debugging.
// It is strictly a side-channel: Capture never returns an error and never
// influences the caller's control flow.
type Sink struct {
	dir string
	log *zap.Logger
}

func NewSink(dir string, log *zap.Logger) *Sink {
	if dir == "" {
		dir = "snapshots"
	}
	return &Sink{
		dir: dir,
		log: log.Named("diag"),
	}
}

// Capture writes a screenshot and the page HTML under a name derived from
// the operation and a timestamp, and returns that base name. On any failure
// it logs and returns what it managed to produce (possibly "").
func (s *Sink) Capture(page *rod.Page, operation string) string {
	if page == nil {
		return ""
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn("cannot create snapshot dir", zap.String("dir", s.dir), zap.Error(err))
		return ""
	}

	base := time.Now().Format("2006-01-02_15-04-05") + "_" + sanitize(operation)

	s.captureScreenshot(page, base)
	s.captureHTML(page, base)

	return base
}

func (s *Sink) captureScreenshot(page *rod.Page, base string) {
	imgBytes, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		s.log.Warn("screenshot failed", zap.String("name", base), zap.Error(err))
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		s.log.Warn("screenshot decode failed", zap.String("name", base), zap.Error(err))
		return
	}
	if img.Bounds().Dx() > snapshotMaxWidth {
		img = imaging.Resize(img, snapshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		s.log.Warn("screenshot encode failed", zap.String("name", base), zap.Error(err))
		return
	}

	path := filepath.Join(s.dir, base+".jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		s.log.Warn("screenshot write failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.log.Info("snapshot written", zap.String("path", path))
}

func (s *Sink) captureHTML(page *rod.Page, base string) {
	html, err := page.HTML()
	if err != nil {
		s.log.Warn("html capture failed", zap.String("name", base), zap.Error(err))
		return
	}
	path := filepath.Join(s.dir, base+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		s.log.Warn("html write failed", zap.String("path", path), zap.Error(err))
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "operation"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
