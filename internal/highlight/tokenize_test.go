package highlight

import (
	"strings"
	"testing"
)

func concat(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

func TestTokenizeReconstruction(t *testing.T) {
	lines := []string{
		`func add(a, b int) int { return a + b }`,
		`	x := "quoted string"`,
		`// a comment`,
		`const n = 42`,
		``,
		`}`,
	}
	for _, line := range lines {
		tokens := Tokenize("Go", line)
		if got := concat(tokens); got != line {
			t.Errorf("Tokenize(%q) reconstructs to %q", line, got)
		}
	}
}

func TestTokenizeClassifiesKeyword(t *testing.T) {
	tokens := Tokenize("Go", "func main() {")
	found := false
	for _, tok := range tokens {
		if tok.Text == "func" && tok.Class == ClassKeyword {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a keyword token for 'func', got %+v", tokens)
	}
}

func TestTokenizeUnknownLanguage(t *testing.T) {
	tokens := Tokenize("", "anything at all")
	if len(tokens) != 1 || tokens[0].Class != ClassNone {
		t.Errorf("unknown language should yield one untokenized run, got %+v", tokens)
	}

	tokens = Tokenize("no-such-language-xyz", "content")
	if len(tokens) != 1 || tokens[0].Text != "content" {
		t.Errorf("unmatched lexer should yield one untokenized run, got %+v", tokens)
	}
}

func TestTokenizeOverLengthCeiling(t *testing.T) {
	long := strings.Repeat("x", MaxLineLength+1)
	tokens := Tokenize("Go", long)
	if len(tokens) != 1 || tokens[0].Text != long || tokens[0].Class != ClassNone {
		t.Error("over-ceiling line should be a single untokenized run")
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"main.go", "Go"},
		{"script.py", "Python"},
		{"unknown.zzz", ""},
	}
	for _, tt := range tests {
		if got := Language(tt.filename); got != tt.want {
			t.Errorf("Language(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
