package imagefetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	pkgError "github.com/hackatransparency/alfred-vision/pkg/error"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

// hardReadLimit caps how much body is ever buffered, independent of the
// downscale budget.
const hardReadLimit = 64 << 20

// Result is a fetched image ready to hand to a vision provider.
type Result struct {
	Data     []byte
	MimeType string
}

// Fetcher downloads gallery images over HTTP and keeps them within the
// size limit the vision providers accept.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		maxBytes: maxBytes,
	}
}

// Fetch retrieves the image at url. Oversized images are downscaled and
// re-encoded as JPEG instead of being rejected.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("invalid image url %s: %v", url, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("failed to fetch image %s: %v", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgError.FetchError(fmt.Sprintf("failed to fetch image %s: status %d", url, resp.StatusCode))
	}

	// Leave headroom above maxBytes so oversized originals can still be
	// read and downscaled, but never buffer unbounded input.
	readLimit := int64(hardReadLimit)
	if f.maxBytes > 0 && f.maxBytes*8 < readLimit {
		readLimit = f.maxBytes * 8
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, readLimit+1))
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("failed to read image body %s: %v", url, err))
	}
	if int64(len(data)) > readLimit {
		return nil, pkgError.FetchError(fmt.Sprintf("image %s exceeds the %d byte read limit", url, readLimit))
	}
	if len(data) == 0 {
		return nil, pkgError.FetchError(fmt.Sprintf("empty image body from %s", url))
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}

	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		shrunk, err := downscale(data)
		if err != nil {
			return nil, pkgError.FetchError(fmt.Sprintf("image %s exceeds %d bytes and could not be downscaled: %v", url, f.maxBytes, err))
		}
		logrus.Debugf("[IMAGEFETCH] downscaled %s from %d to %d bytes", url, len(data), len(shrunk))
		data = shrunk
		mimeType = "image/jpeg"
	}

	return &Result{Data: data, MimeType: mimeType}, nil
}

func downscale(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(src, 1280, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
