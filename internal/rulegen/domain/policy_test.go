package domain

import "testing"

func TestFilterPolicy_SubdomainWhitelistedIgnoresCase(t *testing.T) {
	p := NewFilterPolicy(nil, nil, []string{"WWW", "api"}, 3, 3)
	tests := []struct {
		label string
		want  bool
	}{
		{"www", true},
		{"WWW", true},
		{"Api", true},
		{"track", false},
	}
	for _, tt := range tests {
		if got := p.SubdomainWhitelisted(tt.label); got != tt.want {
			t.Errorf("SubdomainWhitelisted(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestEvidenceRecord_ResourcesForIgnoresCase(t *testing.T) {
	rec := EvidenceRecord{
		Domain: "x.com",
		Resources: []Resource{
			{Subdomains: []string{"Track"}},
			{Subdomains: []string{"track", "www"}},
			{},
		},
	}
	if got := rec.ResourcesFor("TRACK"); got != 2 {
		t.Errorf("ResourcesFor(TRACK) = %d, want 2", got)
	}
}
