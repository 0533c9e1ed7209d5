// Package output writes generated artifacts to disk. Every write goes to a
// temporary file in the destination directory and is renamed into place, so
// a reader never observes a partial file.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// WriteRules serializes doc as a JSON array with 2-space indentation.
func WriteRules(doc domain.RuleDocument, dest string) error {
	if doc == nil {
		doc = domain.RuleDocument{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	b = append(b, '\n')
	return WriteRaw(bytes.NewReader(b), dest)
}

// WriteHostList writes one domain per line. Each header line is emitted as a
// "# " comment, followed by a blank line.
func WriteHostList(domains []domain.Domain, header []string, dest string) error {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for _, h := range header {
		fmt.Fprintf(w, "# %s\n", strings.TrimRight(h, "\r\n"))
	}
	if len(header) > 0 {
		w.WriteString("\n")
	}
	for _, d := range domains {
		w.WriteString(d.String())
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return WriteRaw(&buf, dest)
}

// WriteRaw copies r to dest atomically, creating parent directories.
func WriteRaw(r io.Reader, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod %s: %w", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename into %s: %w", dest, err)
	}
	return nil
}
