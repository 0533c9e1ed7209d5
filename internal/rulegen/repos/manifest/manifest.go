// Package manifest loads the blocklist mirror manifest: a set of packs, each
// with named configs pointing at one or more list URLs.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
)

// Manifest is the decoded mirror manifest.
type Manifest struct {
	Output string `koanf:"output"`
	Packs  []Pack `koanf:"packs" validate:"required,min=1,dive"`
}

// Pack groups related list configs under one id.
type Pack struct {
	ID      string   `koanf:"id" validate:"required,excludesall=/\\"`
	Configs []Config `koanf:"configs" validate:"required,min=1,dive"`
}

// Config is one downloadable variant of a pack. Only the first URL is mirrored;
// the rest are fallbacks kept for reference.
type Config struct {
	Name string   `koanf:"name" validate:"required,excludesall=/\\"`
	URLs []string `koanf:"urls" validate:"required,min=1,dive,url"`
}

// Entry is one mirror job in manifest order.
type Entry struct {
	Pack   string
	Config string
	URL    string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a YAML, JSON or TOML manifest chosen by file extension.
func Load(path string) (*Manifest, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, fmt.Errorf("unsupported manifest type %q", filepath.Ext(path))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load manifest %s: %w", path, err)
	}

	var m Manifest
	if err := k.Unmarshal("", &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Entries flattens the manifest into mirror jobs, preserving declaration order.
func (m *Manifest) Entries() []Entry {
	var out []Entry
	for _, p := range m.Packs {
		for _, c := range p.Configs {
			out = append(out, Entry{Pack: p.ID, Config: c.Name, URL: c.URLs[0]})
		}
	}
	return out
}

// Path returns where an entry is written below root.
func (e Entry) Path(root string) string {
	return filepath.Join(root, e.Pack, e.Config, "hosts.txt")
}
