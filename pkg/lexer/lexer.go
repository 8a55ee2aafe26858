// Package lexer turns source text into tokens using an ordered rule table.
package lexer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/token"
)

type action int

const (
	emit action = iota
	skip
	newline
)

type rule struct {
	kind    token.Kind
	pattern *regexp.Regexp
	action  action
}

func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`\A(?:` + pattern + `)`)
}

var keywordPattern = func() string {
	words := make([]string, 0, len(token.Keywords))
	for _, w := range orderedKeywords {
		words = append(words, regexp.QuoteMeta(w))
	}
	return `\b(?:` + strings.Join(words, "|") + `)\b`
}()

// Longest words first so alternation never stops at a prefix like "as" of "async".
var orderedKeywords = []string{
	"finally", "except", "import", "return", "async", "await", "raise", "while",
	"print", "false", "elif", "else", "true", "null", "with", "def", "for", "and",
	"not", "try", "if", "or", "as", "in", "is",
}

// Rules are tried in order; the first pattern that matches at the current
// offset wins.
var rules = []rule{
	{kind: token.Illegal, pattern: anchored(`\n`), action: newline},
	{kind: token.Illegal, pattern: anchored(`[ \t\r]+`), action: skip},
	{kind: token.Illegal, pattern: anchored(`(?s)/\*.*?\*/`), action: skip},
	{kind: token.Illegal, pattern: anchored(`//[^\n]*`), action: skip},
	{kind: token.Illegal, pattern: anchored(`#[^\n]*`), action: skip},
	{kind: token.Number, pattern: anchored(`\d+`)},
	{kind: token.Identifier, pattern: anchored(keywordPattern)},
	{kind: token.String, pattern: anchored(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)},
	{kind: token.LessEq, pattern: anchored(`<=`)},
	{kind: token.GreaterEq, pattern: anchored(`>=`)},
	{kind: token.Eq, pattern: anchored(`==`)},
	{kind: token.NotEq, pattern: anchored(`!=`)},
	{kind: token.Less, pattern: anchored(`<`)},
	{kind: token.Greater, pattern: anchored(`>`)},
	{kind: token.Assign, pattern: anchored(`=`)},
	{kind: token.Identifier, pattern: anchored(`[a-zA-Z_]\w*`)},
	{kind: token.Plus, pattern: anchored(`\+`)},
	{kind: token.Minus, pattern: anchored(`-`)},
	{kind: token.Multiply, pattern: anchored(`\*`)},
	{kind: token.Divide, pattern: anchored(`/`)},
	{kind: token.Percent, pattern: anchored(`%`)},
	{kind: token.LBrace, pattern: anchored(`\{`)},
	{kind: token.RBrace, pattern: anchored(`\}`)},
	{kind: token.LParen, pattern: anchored(`\(`)},
	{kind: token.RParen, pattern: anchored(`\)`)},
	{kind: token.LBracket, pattern: anchored(`\[`)},
	{kind: token.RBracket, pattern: anchored(`\]`)},
	{kind: token.Comma, pattern: anchored(`,`)},
	{kind: token.Semicolon, pattern: anchored(`;`)},
	{kind: token.Colon, pattern: anchored(`:`)},
	{kind: token.Dot, pattern: anchored(`\.`)},
	{kind: token.And, pattern: anchored(`&&`)},
	{kind: token.Or, pattern: anchored(`\|\|`)},
	{kind: token.Bang, pattern: anchored(`!`)},
}

// Tokenize scans the whole source. Whitespace, comments and newlines produce no
// tokens. The error, when non-nil, is a *diagnostics.Error of kind SyntaxError.
func Tokenize(src *token.Source) ([]token.Token, error) {
	text := src.Text
	tokens := make([]token.Token, 0, len(text)/3)
	line, lineStart := 1, 0
	pos := 0

	for pos < len(text) {
		rest := text[pos:]
		if strings.HasPrefix(rest, "/*") && !strings.Contains(rest[2:], "*/") {
			tok := token.Token{Kind: token.Illegal, Value: "/*", Line: line, Column: pos - lineStart + 1, Source: src}
			return nil, diagnostics.NewSyntaxError("Unterminated block comment", &tok)
		}
		matched := false
		for _, r := range rules {
			loc := r.pattern.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			lexeme := rest[:loc[1]]
			column := pos - lineStart + 1
			matched = true

			switch r.action {
			case newline:
				line++
				lineStart = pos + loc[1]
			case skip:
				if n := strings.Count(lexeme, "\n"); n > 0 {
					line += n
					lineStart = pos + strings.LastIndex(lexeme, "\n") + 1
				}
			default:
				tok, err := makeToken(r.kind, lexeme, line, column, src)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, tok)
				if r.kind == token.String {
					if n := strings.Count(lexeme, "\n"); n > 0 {
						line += n
						lineStart = pos + strings.LastIndex(lexeme, "\n") + 1
					}
				}
			}
			pos += loc[1]
			break
		}
		if matched {
			continue
		}

		column := pos - lineStart + 1
		ch := firstRune(rest)
		tok := token.Token{Kind: token.Illegal, Value: ch, Line: line, Column: column, Source: src}
		return nil, diagnostics.NewSyntaxError(fmt.Sprintf("Unexpected character: %s", ch), &tok)
	}
	return tokens, nil
}

// TokenizeString is a convenience wrapper for anonymous source.
func TokenizeString(text string) ([]token.Token, error) {
	return Tokenize(token.NewSource("", text))
}

func makeToken(kind token.Kind, lexeme string, line, column int, src *token.Source) (token.Token, error) {
	tok := token.Token{Kind: kind, Value: lexeme, Line: line, Column: column, Source: src}
	switch kind {
	case token.Identifier:
		if kw, ok := token.Keywords[lexeme]; ok {
			tok.Kind = kw
		}
	case token.Number:
		n, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return tok, diagnostics.NewSyntaxError(fmt.Sprintf("Integer literal out of range: %s", lexeme), &tok)
		}
		tok.Int = n
	case token.String:
		tok.Value = lexeme[1 : len(lexeme)-1]
	case token.And:
		tok.Value = "and"
	case token.Or:
		tok.Value = "or"
	}
	return tok, nil
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
