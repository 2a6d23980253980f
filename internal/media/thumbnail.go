package media

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"photorium/internal/logging"
	"photorium/internal/mediatypes"
	"photorium/internal/metrics"
	"photorium/internal/workers"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// MaxThumbnailDimension bounds the longer side of every thumbnail.
	MaxThumbnailDimension = 500
	// ThumbnailQuality is the JPEG quality for encoded thumbnails.
	ThumbnailQuality = 80
)

// ErrNotFound indicates the source file does not exist.
var ErrNotFound = errors.New("source file not found")

// GenerationError indicates the source exists but no thumbnail could be
// produced from it.
type GenerationError struct {
	Path string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("thumbnail generation failed for %s: %v", e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generator produces bounded-size JPEG previews for images and videos.
// Generation is limited to one in-flight job per CPU; generated
// thumbnails are cached on disk keyed by the source path.
type Generator struct {
	cacheDir     string
	cacheEnabled bool
	sem          chan struct{}
}

// NewGenerator creates a Generator. An empty cacheDir disables the disk
// cache.
func NewGenerator(cacheDir string) *Generator {
	enabled := cacheDir != ""
	if enabled {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logging.Warn("Thumbnails: failed to create cache dir %s: %v", cacheDir, err)
			enabled = false
		}
	}
	return &Generator{
		cacheDir:     cacheDir,
		cacheEnabled: enabled,
		sem:          make(chan struct{}, workers.ForCPU(8)),
	}
}

// Generate returns an encoded JPEG thumbnail for the file at path, with
// the longer side at most MaxThumbnailDimension and aspect ratio
// preserved. Image sources are EXIF-orientation corrected before
// resizing; video sources use the first decodable frame. A missing source
// reports ErrNotFound, any other failure a *GenerationError.
func (g *Generator) Generate(path string, fileType mediatypes.FileType) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &GenerationError{Path: path, Err: err}
	}

	cachePath := g.cachePath(path)
	if data, ok := g.readCache(cachePath); ok {
		metrics.ThumbnailCacheTotal.WithLabelValues("hit").Inc()
		return data, nil
	}
	metrics.ThumbnailCacheTotal.WithLabelValues("miss").Inc()

	g.sem <- struct{}{}
	defer func() { <-g.sem }()

	// Another request may have generated it while we waited.
	if data, ok := g.readCache(cachePath); ok {
		return data, nil
	}

	start := time.Now()
	data, err := g.generate(path, fileType)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ThumbnailsGeneratedTotal.WithLabelValues(string(fileType), status).Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(string(fileType)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	g.writeCache(cachePath, data)
	return data, nil
}

func (g *Generator) generate(path string, fileType mediatypes.FileType) ([]byte, error) {
	var img image.Image
	var err error

	switch fileType {
	case mediatypes.FileTypeImage:
		img, err = g.loadImage(path)
	case mediatypes.FileTypeVideo:
		img, err = g.firstFrame(path)
	default:
		return nil, &GenerationError{Path: path, Err: fmt.Errorf("unsupported file type %q", fileType)}
	}
	if err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}

	thumb := imaging.Fit(img, MaxThumbnailDimension, MaxThumbnailDimension, imaging.Lanczos)

	// JPEG encoding flattens alpha and palette sources to three channels.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return nil, &GenerationError{Path: path, Err: err}
	}
	return buf.Bytes(), nil
}

// loadImage decodes an image with EXIF orientation applied. libvips is
// tried first for its decode-time shrinking; the imaging fallback covers
// formats vips was built without.
func (g *Generator) loadImage(path string) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := loadWithVips(path, MaxThumbnailDimension)
		if err == nil {
			return img, nil
		}
		logging.Debug("Thumbnails: vips load failed for %s: %v, falling back", path, err)
	}

	return imaging.Open(path, imaging.AutoOrientation(true))
}

// firstFrame extracts the first decodable frame of a video with ffmpeg.
// The frame travels as PNG on ffmpeg's stdout, so channel ordering is
// already what the encoder expects. A seek to the one-second mark gets a
// representative frame; clips shorter than that fall back to frame zero.
func (g *Generator) firstFrame(path string) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	frame, err := runFFmpeg(path, true)
	if err != nil {
		logging.Debug("Thumbnails: seek extract failed for %s: %v, trying frame zero", path, err)
		frame, err = runFFmpeg(path, false)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decode extracted frame: %w", err)
	}
	return img, nil
}

func runFFmpeg(path string, seek bool) ([]byte, error) {
	args := []string{"-i", path}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", path}
	}
	args = append(args,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command("ffmpeg", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}
	return stdout.Bytes(), nil
}

func (g *Generator) cachePath(path string) string {
	if !g.cacheEnabled {
		return ""
	}
	hash := md5.Sum([]byte(path))
	return filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", hash))
}

func (g *Generator) readCache(cachePath string) ([]byte, bool) {
	if cachePath == "" {
		return nil, false
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (g *Generator) writeCache(cachePath string, data []byte) {
	if cachePath == "" {
		return
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		logging.Warn("Thumbnails: failed to cache %s: %v", cachePath, err)
	}
}
