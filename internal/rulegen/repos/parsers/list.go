package parsers

import (
	"bufio"
	"bytes"
	"io"

	logpkg "github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// maxLineLen caps a single list line. Hostnames stop at 253 characters, so
// anything longer cannot carry a usable entry.
const maxLineLen = 4096

// ParseStats summarizes one ParseList call.
type ParseStats struct {
	Lines   int
	Parsed  int
	Skipped domain.Tally
}

// ParseList reads a blocklist in any supported dialect and returns the
// domains it names, in line order. Dialects may be mixed within one source.
//
// Behavior:
//   - Blank lines and comments (# or !) are skipped
//   - *.example.com, ||example.com^, 0.0.0.0 example.com, 127.0.0.1 example.com
//     and bare example.com each yield example.com
//   - Unrecognized lines and tokens that are not valid hostnames are skipped
//     and counted, never fatal
//   - Duplicates are kept; deduplication happens across sources later
//
// Lines longer than maxLineLen are consumed and counted as unrecognized.
// Only an error from the underlying reader fails the call.
func ParseList(r io.Reader, source string, logger logpkg.Logger) ([]domain.Domain, ParseStats, error) {
	br := bufio.NewReaderSize(r, maxLineLen)

	var stats ParseStats
	out := make([]domain.Domain, 0, 256)

	logger.Debug(map[string]any{"source": source}, "parse_list_start")

	for {
		line, oversized, err := nextLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Debug(map[string]any{"source": source, "line": stats.Lines + 1, "error": err.Error()}, "parse_list_read_error")
			return nil, stats, err
		}
		stats.Lines++
		if oversized {
			stats.Skipped.Add(domain.SkipUnrecognized)
			logger.Debug(map[string]any{"source": source, "line": stats.Lines}, "skip_oversized_line")
			continue
		}
		kind, token := ClassifyLine(line)

		switch kind {
		case LineBlank:
			stats.Skipped.Add(domain.SkipBlank)
			continue
		case LineComment:
			stats.Skipped.Add(domain.SkipComment)
			continue
		case LineUnrecognized:
			stats.Skipped.Add(domain.SkipUnrecognized)
			logger.Debug(map[string]any{"source": source, "line": stats.Lines}, "skip_unrecognized")
			continue
		}

		if token == "" {
			stats.Skipped.Add(domain.SkipNoHostname)
			logger.Debug(map[string]any{"source": source, "line": stats.Lines, "kind": kind.String()}, "skip_no_hostname")
			continue
		}

		d, err := domain.NewDomain(token)
		if err != nil {
			stats.Skipped.Add(domain.SkipInvalidDomain)
			logger.Debug(map[string]any{"source": source, "line": stats.Lines, "raw": token, "error": err.Error()}, "skip_invalid_domain")
			continue
		}

		out = append(out, d)
		stats.Parsed++
	}

	logger.Debug(map[string]any{"source": source, "lines": stats.Lines, "count": stats.Parsed}, "parse_list_done")
	return out, stats, nil
}

// nextLine returns the next line without its terminator. A line that does
// not fit in the reader buffer is drained to its end and reported as oversized.
func nextLine(br *bufio.Reader) (string, bool, error) {
	chunk, isPrefix, err := br.ReadLine()
	if err != nil {
		return "", false, err
	}
	if !isPrefix {
		return string(chunk), false, nil
	}
	for isPrefix {
		_, isPrefix, err = br.ReadLine()
		if err == io.EOF {
			return "", true, nil
		}
		if err != nil {
			return "", true, err
		}
	}
	return "", true, nil
}

// ParseRaw parses a fetched RawList.
func ParseRaw(raw domain.RawList, logger logpkg.Logger) ([]domain.Domain, ParseStats, error) {
	return ParseList(bytes.NewReader(raw.Body), raw.Source, logger)
}

// ParseLine classifies one line and, when it names a valid hostname, returns it.
// ok is false for skipped lines and for tokens NewDomain rejects.
func ParseLine(line string) (d domain.Domain, kind LineKind, ok bool) {
	kind, token := ClassifyLine(line)
	if token == "" {
		return "", kind, false
	}
	d, err := domain.NewDomain(token)
	if err != nil {
		return "", kind, false
	}
	return d, kind, true
}
