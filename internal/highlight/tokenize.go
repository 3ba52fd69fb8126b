// Package highlight produces syntax tokens for diff content lines
// through a budgeted, cancelable scheduler backed by a bounded cache.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Class is a coarse syntax class a token belongs to. The theme layer
// maps classes to colors.
type Class int

const (
	ClassNone Class = iota
	ClassKeyword
	ClassString
	ClassNumber
	ClassComment
	ClassFunction
	ClassOperator
)

// Token is a fragment of a line plus its syntax class. The tokens for
// a line always concatenate back to the exact source line.
type Token struct {
	Text  string
	Class Class
}

// MaxLineLength is the tokenization ceiling. Lines longer than this
// are emitted as a single untokenized run to bound worst-case cost.
const MaxLineLength = 1000

// Language guesses the highlighting language for a filename, returning
// "" when no lexer matches.
func Language(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}

// Tokenize produces syntax tokens for one line. Unknown languages,
// lexer errors and over-length lines all degrade to a single
// untokenized run; this never fails.
func Tokenize(language, line string) []Token {
	plain := []Token{{Text: line}}
	if language == "" || len(line) > MaxLineLength {
		return plain
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return plain
	}

	it, err := lexer.Tokenise(nil, line)
	if err != nil {
		return plain
	}

	var out []Token
	for _, t := range it.Tokens() {
		if t.Value == "" {
			continue
		}
		out = append(out, Token{Text: t.Value, Class: classFor(t.Type)})
	}

	// Some lexers normalize a trailing newline onto the input; strip
	// it so reconstruction stays exact.
	if n := len(out); n > 0 {
		last := strings.TrimSuffix(out[n-1].Text, "\n")
		if last == "" {
			out = out[:n-1]
		} else {
			out[n-1].Text = last
		}
	}

	var b strings.Builder
	for _, t := range out {
		b.WriteString(t.Text)
	}
	if b.String() != line {
		return plain
	}
	return out
}

// classFor collapses chroma's fine-grained token types into the small
// set of classes the theme knows about.
func classFor(t chroma.TokenType) Class {
	switch {
	case t.InCategory(chroma.Comment):
		return ClassComment
	case t.InCategory(chroma.Keyword):
		return ClassKeyword
	case t.InSubCategory(chroma.LiteralString):
		return ClassString
	case t.InSubCategory(chroma.LiteralNumber):
		return ClassNumber
	case t == chroma.NameFunction || t == chroma.NameClass || t == chroma.NameBuiltin:
		return ClassFunction
	case t.InCategory(chroma.Operator) || t.InCategory(chroma.Punctuation):
		return ClassOperator
	default:
		return ClassNone
	}
}
