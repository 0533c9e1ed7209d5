package domain

import "strings"

// FilterPolicy holds the inclusion/exclusion rules of one run.
// It is built once and only read afterwards; concurrent readers are safe.
type FilterPolicy struct {
	WhitelistDomains         map[Domain]struct{}
	WhitelistCategories      map[string]struct{}
	WhitelistSubdomains      map[string]struct{}
	MinResources             int // minimum resources for a record without subdomains
	MinResourcesPerSubdomain int // minimum resources naming a declared subdomain
}

// NewFilterPolicy builds a FilterPolicy from plain slices. Subdomain labels
// are stored lowercased.
func NewFilterPolicy(domains []Domain, categories, subdomains []string, minResources, minPerSubdomain int) FilterPolicy {
	p := FilterPolicy{
		WhitelistDomains:         make(map[Domain]struct{}, len(domains)),
		WhitelistCategories:      make(map[string]struct{}, len(categories)),
		WhitelistSubdomains:      make(map[string]struct{}, len(subdomains)),
		MinResources:             minResources,
		MinResourcesPerSubdomain: minPerSubdomain,
	}
	for _, d := range domains {
		p.WhitelistDomains[d] = struct{}{}
	}
	for _, c := range categories {
		p.WhitelistCategories[c] = struct{}{}
	}
	for _, s := range subdomains {
		p.WhitelistSubdomains[strings.ToLower(s)] = struct{}{}
	}
	return p
}

// CategoryWhitelisted reports whether any of categories is whitelisted.
func (p FilterPolicy) CategoryWhitelisted(categories []string) bool {
	for _, c := range categories {
		if _, ok := p.WhitelistCategories[c]; ok {
			return true
		}
	}
	return false
}

// SubdomainWhitelisted reports whether label is whitelisted, ignoring case.
func (p FilterPolicy) SubdomainWhitelisted(label string) bool {
	_, ok := p.WhitelistSubdomains[strings.ToLower(label)]
	return ok
}

// WhitelistedDomains returns the whitelisted domains in no particular order.
func (p FilterPolicy) WhitelistedDomains() []Domain {
	out := make([]Domain, 0, len(p.WhitelistDomains))
	for d := range p.WhitelistDomains {
		out = append(out, d)
	}
	return out
}
