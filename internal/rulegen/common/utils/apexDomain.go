package utils

import "golang.org/x/net/publicsuffix"

// GetApexDomain returns the registrable domain (eTLD+1) for name using the
// public suffix list. Names the list cannot place are returned unchanged.
func GetApexDomain(name string) string {
	apexDomain, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apexDomain
}

// CountApexDomains returns how many distinct registrable domains appear in names.
func CountApexDomains(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[GetApexDomain(n)] = struct{}{}
	}
	return len(seen)
}
