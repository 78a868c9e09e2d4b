// Package fetch retrieves upload content for the CLI from local files, URLs,
// or standard input, with size limits so a single source cannot exhaust
// memory before extraction even starts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size limits applied before any bytes reach the extractor.
const (
	MaxFileSizeBytes = 50 * 1024 * 1024  // local files and stdin
	MaxHTTPSizeBytes = 100 * 1024 * 1024 // HTTP content may lack Content-Length
)

// HTTPRequestTimeout bounds the whole download of a remote source.
const HTTPRequestTimeout = 30 * time.Second

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// httpClient is shared across calls; safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout: HTTPRequestTimeout / 6,
		}).Dial,
		TLSHandshakeTimeout:   HTTPRequestTimeout / 6,
		ResponseHeaderTimeout: HTTPRequestTimeout / 2,
		DisableKeepAlives:     true,
	},
}

// GetContent retrieves the bytes of one source:
//   - "-" reads standard input
//   - "http://" or "https://" sources are downloaded
//   - everything else is treated as a local file path
//
// The declared name of the content (for extension dispatch) stays the
// caller's responsibility; this function only moves bytes.
func GetContent(ctx context.Context, source string) ([]byte, error) {
	reader, err := openSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", source, err)
	}
	return data, nil
}

func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{
			ReadCloser: os.Stdin,
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// fetchURL downloads a remote source, refusing oversized content early when
// the server declares a length.
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "zapsync/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file, checking its size before reading.
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing file %q: %w", path, err)
	}

	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	return os.Open(path)
}
