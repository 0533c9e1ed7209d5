package parsers

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

func TestParseList_MixedDialects(t *testing.T) {
	input := strings.Join([]string{
		"*.ads.example.com",
		"||tracker.io^",
		"0.0.0.0 bad.host",
		"plain.example.net",
		"# comment",
	}, "\n")

	got, stats, err := ParseList(strings.NewReader(input), "mixed", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	want := []domain.Domain{"ads.example.com", "tracker.io", "bad.host", "plain.example.net"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseList mismatch (-want +got):\n%s", diff)
	}
	if stats.Lines != 5 || stats.Parsed != 4 || stats.Skipped[domain.SkipComment] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseList_HostsFile(t *testing.T) {
	input := `
# StevenBlack style
127.0.0.1 localhost
127.0.0.1 localhost.localdomain
0.0.0.0 0.0.0.0
0.0.0.0 Example.COM
0.0.0.0   ad.doubleclick.net   # inline comment
::1 localhost ip6-localhost
0.0.0.0
`
	got, stats, err := ParseList(strings.NewReader(input), "hosts", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	want := []domain.Domain{"localhost.localdomain", "example.com", "ad.doubleclick.net"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseList mismatch (-want +got):\n%s", diff)
	}
	if stats.Skipped[domain.SkipInvalidDomain] != 2 { // localhost, 0.0.0.0 as hostname
		t.Errorf("invalid_domain = %d, want 2", stats.Skipped[domain.SkipInvalidDomain])
	}
	if stats.Skipped[domain.SkipNoHostname] != 1 {
		t.Errorf("no_hostname = %d, want 1", stats.Skipped[domain.SkipNoHostname])
	}
	if stats.Skipped[domain.SkipUnrecognized] != 1 { // ::1 line
		t.Errorf("unrecognized = %d, want 1", stats.Skipped[domain.SkipUnrecognized])
	}
}

func TestParseList_KeepsDuplicatesAndOrder(t *testing.T) {
	input := "b.com\na.com\n||b.com^\n"
	got, _, err := ParseList(strings.NewReader(input), "dupes", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	want := []domain.Domain{"b.com", "a.com", "b.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseList_MalformedLinesNeverFail(t *testing.T) {
	input := "@@||allowed.com^\nexample.com##.ad\n/regex.*/\n*.\n||^\n<html>\nok.example.org\n"
	got, stats, err := ParseList(strings.NewReader(input), "junk", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if len(got) != 1 || got[0] != "ok.example.org" {
		t.Fatalf("expected only ok.example.org, got %v", got)
	}
	if stats.Skipped.Total() != 6 {
		t.Fatalf("expected 6 skipped lines, got %d (%v)", stats.Skipped.Total(), stats.Skipped)
	}
}

func TestParseList_EmptyAndCommentsOnly(t *testing.T) {
	got, stats, err := ParseList(strings.NewReader("\n# only comments\n! abp comment\n\n"), "s", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 domains, got %d", len(got))
	}
	if stats.Skipped[domain.SkipBlank] != 2 || stats.Skipped[domain.SkipComment] != 2 {
		t.Fatalf("unexpected skips: %v", stats.Skipped)
	}
}

func TestParseList_OversizedLineSkipped(t *testing.T) {
	body := "good.io\n" + strings.Repeat("x", 70000) + "\nafter.io\n"
	got, stats, err := ParseList(strings.NewReader(body), "src", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Domain{"good.io", "after.io"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if stats.Lines != 3 || stats.Skipped[domain.SkipUnrecognized] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseList_OversizedFinalLine(t *testing.T) {
	body := "good.io\n" + strings.Repeat("y", maxLineLen*3)
	got, stats, err := ParseList(strings.NewReader(body), "src", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]domain.Domain{"good.io"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if stats.Skipped[domain.SkipUnrecognized] != 1 {
		t.Fatalf("expected one unrecognized skip, got %v", stats.Skipped)
	}
}

func TestParseList_ReaderError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("a.io\n"), iotest.ErrReader(boom))
	got, _, err := ParseList(r, "src", log.NewNoopLogger())
	if !errors.Is(err, boom) {
		t.Fatalf("expected reader error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result on error, got len=%d", len(got))
	}
}

func TestParseRaw(t *testing.T) {
	raw := domain.RawList{Source: "mem", Body: []byte("||a.example.com^\r\n*.b.example.com\r\n")}
	got, _, err := ParseRaw(raw, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseRaw returned error: %v", err)
	}
	want := []domain.Domain{"a.example.com", "b.example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want domain.Domain
		kind LineKind
		ok   bool
	}{
		{"||Ads.Example.com^", "ads.example.com", LineABP, true},
		{"0.0.0.0 tracker.io # inline", "tracker.io", LineHosts, true},
		{"0.0.0.0", "", LineHosts, false},
		{"*.cdn.example.org", "cdn.example.org", LineWildcard, true},
		{"! abp header", "", LineComment, false},
		{"not_a domain at all", "", LineUnrecognized, false},
		{"-bad-.example.com", "", LineBare, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d, kind, ok := ParseLine(tt.line)
			if d != tt.want || kind != tt.kind || ok != tt.ok {
				t.Errorf("ParseLine(%q) = (%q, %v, %v), want (%q, %v, %v)", tt.line, d, kind, ok, tt.want, tt.kind, tt.ok)
			}
		})
	}
}
