// Package evidence walks a tracker-evidence dataset (DuckDuckGo Tracker Radar
// layout: one JSON document per domain, grouped in region directories) and
// decodes each document into a domain.EvidenceRecord.
package evidence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"

	logpkg "github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// domainsDir is the dataset subdirectory holding per-domain documents.
const domainsDir = "domains"

// recordSchema is the subset of a Tracker Radar domain document rulegen reads.
// Unknown fields are ignored.
type recordSchema struct {
	Domain     string           `koanf:"domain" validate:"required"`
	Categories []string         `koanf:"categories"`
	Resources  []resourceSchema `koanf:"resources" validate:"dive"`
	Subdomains []string         `koanf:"subdomains" validate:"dive,required"`
}

type resourceSchema struct {
	Subdomains []string `koanf:"subdomains"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadStats summarizes a Load call.
type LoadStats struct {
	Files        int
	Records      int
	SchemaErrors int
}

// Root returns the directory holding the per-domain documents: dir/domains
// when dir is a dataset checkout, dir itself otherwise.
func Root(dir string) string {
	candidate := filepath.Join(dir, domainsDir)
	if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
		return candidate
	}
	return dir
}

// Walk visits every .json file under dir in lexical order and passes its
// contents to fn. An error from fn stops the walk and is returned.
func Walk(dir string, fn func(path string, raw []byte) error) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read evidence file %s: %w", path, err)
		}
		return fn(path, raw)
	})
}

// Decode maps one evidence document to an EvidenceRecord. Any problem with the
// document is returned as a *domain.SchemaError carrying path.
func Decode(path string, raw []byte) (domain.EvidenceRecord, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), json.Parser()); err != nil {
		return domain.EvidenceRecord{}, &domain.SchemaError{Path: path, Err: err}
	}

	var s recordSchema
	if err := k.Unmarshal("", &s); err != nil {
		return domain.EvidenceRecord{}, &domain.SchemaError{Path: path, Err: err}
	}
	if err := validate.Struct(&s); err != nil {
		return domain.EvidenceRecord{}, &domain.SchemaError{Path: path, Err: err}
	}

	d, err := domain.NewDomain(s.Domain)
	if err != nil {
		return domain.EvidenceRecord{}, &domain.SchemaError{Path: path, Err: err}
	}

	rec := domain.EvidenceRecord{
		Domain:     d,
		Categories: s.Categories,
		Subdomains: lowerLabels(s.Subdomains),
		Resources:  make([]domain.Resource, len(s.Resources)),
	}
	for i, r := range s.Resources {
		rec.Resources[i] = domain.Resource{Subdomains: lowerLabels(r.Subdomains)}
	}
	return rec, nil
}

func lowerLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(l)
	}
	return out
}

// Load walks dir and decodes every document. Malformed documents are logged,
// counted and skipped; only walk failures (unreadable directory or file) are returned.
func Load(dir string, logger logpkg.Logger) ([]domain.EvidenceRecord, LoadStats, error) {
	var (
		stats   LoadStats
		records []domain.EvidenceRecord
	)

	logger.Debug(map[string]any{"dir": dir}, "evidence_walk_start")

	err := Walk(dir, func(path string, raw []byte) error {
		stats.Files++
		rec, err := Decode(path, raw)
		if err != nil {
			var se *domain.SchemaError
			if errors.As(err, &se) {
				stats.SchemaErrors++
				logger.Warn(map[string]any{"path": path, "error": se.Err.Error()}, "evidence_schema_error")
				return nil
			}
			return err
		}
		records = append(records, rec)
		stats.Records++
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk evidence %s: %w", dir, err)
	}

	logger.Info(map[string]any{
		"dir":           dir,
		"files":         stats.Files,
		"records":       stats.Records,
		"schema_errors": stats.SchemaErrors,
	}, "evidence_loaded")
	return records, stats, nil
}
