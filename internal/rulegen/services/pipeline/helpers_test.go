package pipeline

import (
	"iter"
	"testing"

	"go.uber.org/goleak"

	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testPolicy(whitelist ...string) domain.FilterPolicy {
	ds := make([]domain.Domain, 0, len(whitelist))
	for _, w := range whitelist {
		ds = append(ds, domain.MustDomain(w))
	}
	return domain.NewFilterPolicy(ds, []string{"CDN", "Online Payment", "Non-Tracking"}, []string{"www", "api", "cdn"}, 3, 3)
}

func resources(labels ...[]string) []domain.Resource {
	out := make([]domain.Resource, len(labels))
	for i, l := range labels {
		out[i] = domain.Resource{Subdomains: l}
	}
	return out
}

func blank(n int) []domain.Resource {
	return make([]domain.Resource, n)
}

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func domains(ss ...string) []domain.Domain {
	out := make([]domain.Domain, len(ss))
	for i, s := range ss {
		out[i] = domain.MustDomain(s)
	}
	return out
}
