package domain

import "strings"

// Resource is one observed resource load attributed to an evidence record.
// Subdomains lists the labels of the record's domain the resource was served from.
type Resource struct {
	Subdomains []string
}

// HasSubdomain reports whether label is among the resource's subdomains.
// Labels compare case-insensitively.
func (r Resource) HasSubdomain(label string) bool {
	for _, s := range r.Subdomains {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

// EvidenceRecord is one per-domain entry of a structured tracker-evidence dataset.
// Resources may be empty; subdomain labels are not validated beyond what
// Domain.Sub enforces when a candidate is built.
type EvidenceRecord struct {
	Domain     Domain
	Categories []string
	Resources  []Resource
	Subdomains []string
}

// ResourcesFor counts the resources that reference label.
func (r EvidenceRecord) ResourcesFor(label string) int {
	n := 0
	for _, res := range r.Resources {
		if res.HasSubdomain(label) {
			n++
		}
	}
	return n
}
