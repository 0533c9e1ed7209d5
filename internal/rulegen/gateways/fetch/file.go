package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// File reads sources from the local filesystem. A file:// prefix is accepted.
type File struct{}

// Fetch reads the whole file named by source. A cancelled ctx fails before
// any read. Errors wrap ErrFetch and carry the underlying path error.
func (File) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, source, err)
	}
	b, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return b, nil
}
