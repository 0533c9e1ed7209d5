// Package fetch retrieves list sources over HTTP(S) or from the local
// filesystem. Every error it returns wraps ErrFetch.
package fetch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
)

// ErrFetch marks a source that could not be retrieved.
var ErrFetch = errors.New("fetch failed")

// Fetcher retrieves the raw bytes of one source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Options configures the default source fetcher.
type Options struct {
	Timeout    time.Duration // per request
	Retries    int           // attempts after the first
	UserAgent  string        // empty means DefaultUserAgent
	CacheSize  int           // 0 disables the per-run cache
	MaxBodyLen int64         // larger bodies fail; <= 0 means 256 MiB
}

// DefaultUserAgent identifies rulegen to list hosts.
const DefaultUserAgent = "dnr-rulegen/1.0 (+https://github.com/haukened/dnr-rulegen)"

// Source routes http:// and https:// sources to an HTTP fetcher and anything
// else to the filesystem.
type Source struct {
	http Fetcher
	file Fetcher
}

// NewSource builds the standard fetcher stack: HTTP with retries and the
// filesystem, fronted by a cache when opts.CacheSize > 0.
func NewSource(opts Options, logger log.Logger) (Fetcher, error) {
	src := &Source{
		http: NewHTTP(nil, opts, logger),
		file: File{},
	}
	if opts.CacheSize <= 0 {
		return src, nil
	}
	return NewCached(src, opts.CacheSize, logger)
}

// Fetch retrieves source over HTTP when IsRemote reports true and from the
// filesystem otherwise. Errors come from the selected fetcher unchanged, so
// they wrap ErrFetch.
func (s *Source) Fetch(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		return s.http.Fetch(ctx, source)
	}
	return s.file.Fetch(ctx, source)
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
