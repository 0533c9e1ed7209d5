package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment variable rulegen reads.
const EnvPrefix = "RULEGEN_"

// AppConfig holds one run's configuration.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// MaxRules is the static rule capacity of the target engine.
	MaxRules int `koanf:"max_rules" validate:"required,gte=1"`

	// Parallelism bounds concurrent source fetches.
	Parallelism int `koanf:"parallelism" validate:"required,gte=1,lte=64"`

	// FetchTimeout bounds a single HTTP request, including reading the body.
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"required,gt=0"`

	// FetchRetries is how many times a failed HTTP fetch is retried after the
	// first attempt. Only network errors and statuses 429, 500, 502, 503 and
	// 504 are retried.
	FetchRetries int `koanf:"fetch_retries" validate:"gte=0,lte=10"`

	// FetchCacheSize is the number of source bodies kept for the run, so a
	// source named twice is downloaded once. Zero disables the cache.
	FetchCacheSize int `koanf:"fetch_cache_size" validate:"gte=0"`

	// BloomFPRate is the whitelist bloom filter false-positive target.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// Sources are blocklist URLs or paths, merged in this order.
	Sources []string `koanf:"sources" validate:"dive,source"`

	// Evidence is an optional Tracker Radar checkout.
	Evidence string `koanf:"evidence"`

	// Whitelist is an optional list of never-blocked domains.
	Whitelist string `koanf:"whitelist" validate:"omitempty,source"`

	// WhitelistCategories are evidence categories that exempt a whole record.
	// Names match exactly, so "Online Payment" keeps its space and case.
	WhitelistCategories []string `koanf:"whitelist_categories" validate:"dive,required"`

	// WhitelistSubdomains are labels never emitted as blocked subdomains.
	// Labels match case-insensitively.
	WhitelistSubdomains []string `koanf:"whitelist_subdomains" validate:"dive,required"`

	// MinResources is the resource count a record without declared
	// subdomains needs before its domain is blocked.
	MinResources int `koanf:"min_resources" validate:"gte=0"`

	// MinResourcesPerSubdomain is the number of resources that must name a
	// declared subdomain before that subdomain is blocked.
	MinResourcesPerSubdomain int `koanf:"min_resources_per_subdomain" validate:"gte=0"`

	// Output is where the rule document is written.
	Output string `koanf:"output" validate:"required"`
}

// DEFAULT_APP_CONFIG are the settings used when nothing overrides them.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                      "prod",
	LogLevel:                 "info",
	MaxRules:                 150000,
	Parallelism:              4,
	FetchTimeout:             30 * time.Second,
	FetchRetries:             3,
	FetchCacheSize:           64,
	BloomFPRate:              0.01,
	WhitelistCategories:      []string{"CDN", "Online Payment", "Non-Tracking"},
	WhitelistSubdomains:      []string{"www", "api", "cdn"},
	MinResources:             3,
	MinResourcesPerSubdomain: 3,
	Output:                   "rules.json",
}

// listKeys are split on commas when read from the environment. Spaces are
// kept because category names contain them.
var listKeys = map[string]struct{}{
	"sources":              {},
	"whitelist_categories": {},
	"whitelist_subdomains": {},
}

// validSource accepts an http(s) URL with a host or any non-blank path.
// Local paths are not checked for existence here; a missing file surfaces
// as a fetch error for that source only.
func validSource(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(s)
		return err == nil && u.Host != ""
	}
	return true
}

// envLoader loads RULEGEN_* variables. Keys lose the prefix and are
// lowercased, empty values are ignored, and list keys are split on commas.
// It is a variable so tests can replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			value = strings.TrimSpace(value)

			if value == "" {
				return "", nil
			}

			if _, ok := listKeys[key]; ok {
				parts := strings.Split(value, ",")
				out := make([]string, 0, len(parts))
				for _, p := range parts {
					if p = strings.TrimSpace(p); p != "" {
						out = append(out, p)
					}
				}
				return key, out
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG as the base layer.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation adds the "source" tag used by Sources and Whitelist.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("source", validSource)
}

// Load layers defaults, RULEGEN_* environment variables and overrides, in
// that order, then validates the result. overrides are keyed by koanf name
// and usually come from explicitly set command-line flags.
func Load(overrides map[string]any) (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
