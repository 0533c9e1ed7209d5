package parsers

import "testing"

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line      string
		wantKind  LineKind
		wantToken string
	}{
		{"", LineBlank, ""},
		{"   \t", LineBlank, ""},
		{"# comment", LineComment, ""},
		{"! Title: EasyPrivacy", LineComment, ""},
		{"  # indented comment", LineComment, ""},
		{"*.ads.example.com", LineWildcard, "ads.example.com"},
		{"||tracker.io^", LineABP, "tracker.io"},
		{"0.0.0.0 bad.host", LineHosts, "bad.host"},
		{"127.0.0.1 Bad.Host", LineHosts, "Bad.Host"},
		{"0.0.0.0\tbad.host\tother.host", LineHosts, "bad.host"},
		{"0.0.0.0 bad.host # inline", LineHosts, "bad.host"},
		{"0.0.0.0", LineHosts, ""},
		{"127.0.0.1", LineHosts, ""},
		{"plain.example.net", LineBare, "plain.example.net"},
		{"plain.example.net # trailing", LineBare, "plain.example.net"},
		{"\uFEFFbom.example.com", LineBare, "bom.example.com"},
		{"example.com##.banner", LineBare, "example.com##.banner"},
		{"||tracker.io^$third-party", LineBare, "||tracker.io^$third-party"},
		{"192.168.1.1 router.lan", LineUnrecognized, ""},
		{"localhost", LineUnrecognized, ""},
		{"[Adblock Plus 2.0]", LineUnrecognized, ""},
		{"two words.com here", LineUnrecognized, ""},
	}

	for _, tt := range tests {
		kind, tok := ClassifyLine(tt.line)
		if kind != tt.wantKind || tok != tt.wantToken {
			t.Errorf("ClassifyLine(%q) = (%v, %q), want (%v, %q)", tt.line, kind, tok, tt.wantKind, tt.wantToken)
		}
	}
}

// Each recognizer is checked in isolation so precedence bugs show up as the
// table order, not inside a matcher.
func TestRecognizers_Isolated(t *testing.T) {
	if _, ok := matchWildcard("||x.com^"); ok {
		t.Error("wildcard must not match ABP")
	}
	if _, ok := matchABP("*.x.com"); ok {
		t.Error("ABP must not match wildcard")
	}
	if _, ok := matchHosts("x.com"); ok {
		t.Error("hosts must require a null-route address")
	}
	if _, ok := matchBare("0.0.0.0"); ok {
		t.Error("bare must reject null-route address")
	}
	if _, ok := matchBare("com"); ok {
		t.Error("bare must require a dot")
	}
	if tok, ok := matchBare("x.com"); !ok || tok != "x.com" {
		t.Errorf("matchBare(x.com) = %q, %v", tok, ok)
	}
}

func TestRecognizers_Order(t *testing.T) {
	want := []LineKind{LineBlank, LineComment, LineWildcard, LineABP, LineHosts, LineBare}
	if len(recognizers) != len(want) {
		t.Fatalf("recognizers len = %d, want %d", len(recognizers), len(want))
	}
	for i, r := range recognizers {
		if r.kind != want[i] {
			t.Errorf("recognizers[%d] = %v, want %v", i, r.kind, want[i])
		}
	}
}

func TestLineKind_String(t *testing.T) {
	tests := map[LineKind]string{
		LineUnrecognized: "unrecognized",
		LineBlank:        "blank",
		LineComment:      "comment",
		LineWildcard:     "wildcard",
		LineABP:          "abp",
		LineHosts:        "hosts",
		LineBare:         "bare",
		LineKind(99):     "unrecognized",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("LineKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestStripInlineComment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a.com # c", "a.com"},
		{"a.com\t#c", "a.com"},
		{"a.com##.ad", "a.com##.ad"},
		{"a.com", "a.com"},
		{"#only", "#only"},
	}
	for _, tt := range tests {
		if got := stripInlineComment(tt.in); got != tt.want {
			t.Errorf("stripInlineComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
