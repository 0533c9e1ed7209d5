package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Domain is a validated, lowercase hostname.
//
// Notes:
// - Construction lowercases and trims whitespace only. Trailing dots and
//   punycode are not normalized; a trailing dot leaves an empty label and is rejected.
// - Equality is plain string equality on the lowered form.
type Domain string

var (
	ErrEmptyDomain   = errors.New("domain must not be empty")
	ErrInvalidDomain = errors.New("invalid domain")
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// NewDomain validates s and returns it as a Domain.
func NewDomain(s string) (Domain, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", ErrEmptyDomain
	}
	if err := validateHostname(name); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidDomain, s, err)
	}
	return Domain(name), nil
}

// MustDomain is NewDomain for literals known to be valid. It panics otherwise.
func MustDomain(s string) Domain {
	d, err := NewDomain(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the hostname.
func (d Domain) String() string { return string(d) }

// Sub returns label + "." + d as a new validated Domain.
func (d Domain) Sub(label string) (Domain, error) {
	return NewDomain(label + "." + string(d))
}

// validateHostname enforces:
//   - total length <= 253
//   - at least two labels
//   - each label 1..63 characters of [a-z0-9-_]
//   - the first label starts with a letter or digit
//   - the name is not an IP literal
func validateHostname(name string) error {
	if len(name) > maxDomainLength {
		return fmt.Errorf("length %d exceeds %d", len(name), maxDomainLength)
	}
	if net.ParseIP(name) != nil {
		return errors.New("ip literal")
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return errors.New("need at least two labels")
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabelLength {
			return fmt.Errorf("label length %d out of range", len(label))
		}
		for i := 0; i < len(label); i++ {
			if !isLabelByte(label[i]) {
				return fmt.Errorf("invalid character %q", label[i])
			}
		}
	}
	if !isAlphaNumeric(labels[0][0]) {
		return errors.New("must start with a letter or digit")
	}
	return nil
}

func isAlphaNumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func isLabelByte(b byte) bool {
	return isAlphaNumeric(b) || b == '-' || b == '_'
}
