package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

func TestExtract_MinResourcesBoundary(t *testing.T) {
	tests := []struct {
		name      string
		resources int
		want      []Candidate
	}{
		{"below", 2, nil},
		{"at", 3, []Candidate{{Domain: "ads.io", Evidence: 3}}},
		{"above", 7, []Candidate{{Domain: "ads.io", Evidence: 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tally domain.Tally
			ext := NewExtractor(testPolicy(), nil, &tally, log.NewNoopLogger())
			got := collect(ext.Extract(domain.EvidenceRecord{Domain: "ads.io", Resources: blank(tt.resources)}))
			assert.Equal(t, tt.want, got)
			if tt.want == nil {
				assert.Equal(t, 1, tally[domain.SkipMinResources])
			}
		})
	}
}

func TestExtract_WhitelistedDomainYieldsNothing(t *testing.T) {
	var tally domain.Tally
	ext := NewExtractor(testPolicy("x.com"), nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "x.com",
		Subdomains: []string{"track"},
		Resources:  resources([]string{"track"}, []string{"track"}, []string{"track"}),
	}
	assert.Empty(t, collect(ext.Extract(rec)))
	assert.Equal(t, domain.Tally{domain.SkipWhitelistedDomain: 1}, tally)
}

func TestExtract_WhitelistedCategory(t *testing.T) {
	var tally domain.Tally
	ext := NewExtractor(testPolicy(), nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{Domain: "cdn.io", Categories: []string{"Advertising", "CDN"}, Resources: blank(10)}
	assert.Empty(t, collect(ext.Extract(rec)))
	assert.Equal(t, 1, tally[domain.SkipWhitelistedCategory])
}

func TestExtract_SubdomainScenario(t *testing.T) {
	var tally domain.Tally
	ext := NewExtractor(testPolicy(), nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "x.com",
		Subdomains: []string{"www", "track"},
		Resources:  resources([]string{"track"}, []string{"track"}, []string{"track"}),
	}
	got := collect(ext.Extract(rec))
	assert.Equal(t, []Candidate{{Domain: "track.x.com", Evidence: 3}}, got)
	assert.Equal(t, domain.Tally{domain.SkipWhitelistedSubdomain: 1}, tally)
}

func TestExtract_SubdomainLabelsIgnoreCase(t *testing.T) {
	var tally domain.Tally
	policy := domain.NewFilterPolicy(nil, nil, []string{"WWW"}, 3, 3)
	ext := NewExtractor(policy, nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "x.com",
		Subdomains: []string{"www", "Www", "Track"},
		Resources:  resources([]string{"track", "WWW"}, []string{"TRACK"}, []string{"Track", "www"}),
	}
	got := collect(ext.Extract(rec))
	assert.Equal(t, []Candidate{{Domain: "track.x.com", Evidence: 3}}, got)
	assert.Equal(t, domain.Tally{domain.SkipWhitelistedSubdomain: 2}, tally)
}

func TestExtract_BareDomainNeverEmittedWithSubdomains(t *testing.T) {
	var tally domain.Tally
	ext := NewExtractor(testPolicy(), nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "y.net",
		Subdomains: []string{"pixel", "static"},
		Resources:  resources([]string{"pixel"}, []string{"pixel", "static"}, []string{"pixel"}, nil, nil),
	}
	got := collect(ext.Extract(rec))
	assert.Equal(t, []Candidate{{Domain: "pixel.y.net", Evidence: 3}}, got)
	assert.Equal(t, 1, tally[domain.SkipMinPerSubdomain])
}

func TestExtract_InvalidSubdomainLabel(t *testing.T) {
	var tally domain.Tally
	ext := NewExtractor(testPolicy(), nil, &tally, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "z.org",
		Subdomains: []string{"bad label"},
		Resources:  resources([]string{"bad label"}, []string{"bad label"}, []string{"bad label"}),
	}
	assert.Empty(t, collect(ext.Extract(rec)))
	assert.Equal(t, 1, tally[domain.SkipInvalidDomain])
}

func TestExtract_StopsEarly(t *testing.T) {
	ext := NewExtractor(testPolicy(), nil, nil, log.NewNoopLogger())
	rec := domain.EvidenceRecord{
		Domain:     "m.io",
		Subdomains: []string{"a", "b"},
		Resources:  resources([]string{"a", "b"}, []string{"a", "b"}, []string{"a", "b"}),
	}
	var got []Candidate
	for c := range ext.Extract(rec) {
		got = append(got, c)
		break
	}
	assert.Equal(t, []Candidate{{Domain: "a.m.io", Evidence: 3}}, got)
}
