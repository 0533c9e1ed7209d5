package allowlist

import (
	"io"

	logpkg "github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/parsers"
)

// Load reads a newline-delimited whitelist. Any list dialect the format
// parser understands is accepted, so a hosts file works as a whitelist too.
func Load(r io.Reader, source string, logger logpkg.Logger) ([]domain.Domain, error) {
	domains, stats, err := parsers.ParseList(r, source, logger)
	if err != nil {
		return nil, err
	}
	logger.Info(map[string]any{
		"source":  source,
		"domains": len(domains),
		"skipped": stats.Skipped.Total(),
	}, "whitelist_loaded")
	return domains, nil
}
