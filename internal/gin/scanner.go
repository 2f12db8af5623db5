package gin

import (
	"fmt"
	"strings"
	"unicode"
)

// tokenKind enumerates the lexical token types of the gin syntax.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent
	tokString
	tokNumber
	tokEquals
	tokAt
	tokPercent
	tokDot
	tokComma
	tokColon
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "end of line"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokEquals:
		return "'='"
	case tokAt:
		return "'@'"
	case tokPercent:
		return "'%'"
	case tokDot:
		return "'.'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	}
	return "unknown token"
}

// token is a single lexical unit with its source line.
type token struct {
	kind tokenKind
	text string
	line int
}

// scanner turns gin source text into a token stream. Newlines are
// significant at bracket depth zero (bindings are line-oriented) and
// ignored inside list, tuple, and dict literals, which may span lines.
type scanner struct {
	src   []rune
	pos   int
	line  int
	depth int
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src), line: 1}
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", s.line, fmt.Sprintf(format, args...))
}

func (s *scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	return r
}

// next returns the next token, skipping whitespace, comments, and line
// continuations inside brackets.
func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) {
		r := s.peek()
		switch {
		case r == '#':
			for s.pos < len(s.src) && s.peek() != '\n' {
				s.pos++
			}
		case r == '\n':
			s.pos++
			line := s.line
			s.line++
			if s.depth == 0 {
				return token{kind: tokNewline, line: line}, nil
			}
		case r == ' ' || r == '\t' || r == '\r':
			s.pos++
		case r == '\\':
			// Explicit line continuation.
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.pos += 2
				s.line++
			} else {
				return token{}, s.errorf("unexpected character %q", r)
			}
		default:
			return s.scanToken()
		}
	}
	return token{kind: tokEOF, line: s.line}, nil
}

func (s *scanner) scanToken() (token, error) {
	line := s.line
	r := s.peek()

	switch r {
	case '=':
		s.advance()
		return token{kind: tokEquals, text: "=", line: line}, nil
	case '@':
		s.advance()
		return token{kind: tokAt, text: "@", line: line}, nil
	case '%':
		s.advance()
		return token{kind: tokPercent, text: "%", line: line}, nil
	case '.':
		s.advance()
		return token{kind: tokDot, text: ".", line: line}, nil
	case ',':
		s.advance()
		return token{kind: tokComma, text: ",", line: line}, nil
	case ':':
		s.advance()
		return token{kind: tokColon, text: ":", line: line}, nil
	case '(':
		s.advance()
		s.depth++
		return token{kind: tokLParen, text: "(", line: line}, nil
	case ')':
		s.advance()
		s.depth--
		return token{kind: tokRParen, text: ")", line: line}, nil
	case '[':
		s.advance()
		s.depth++
		return token{kind: tokLBracket, text: "[", line: line}, nil
	case ']':
		s.advance()
		s.depth--
		return token{kind: tokRBracket, text: "]", line: line}, nil
	case '{':
		s.advance()
		s.depth++
		return token{kind: tokLBrace, text: "{", line: line}, nil
	case '}':
		s.advance()
		s.depth--
		return token{kind: tokRBrace, text: "}", line: line}, nil
	case '\'', '"':
		return s.scanString()
	}

	if r == '-' || r == '+' || unicode.IsDigit(r) {
		return s.scanNumber()
	}
	if r == '_' || unicode.IsLetter(r) {
		return s.scanIdent()
	}
	return token{}, s.errorf("unexpected character %q", r)
}

func (s *scanner) scanString() (token, error) {
	line := s.line
	quote := s.advance()
	var sb strings.Builder
	for {
		if s.pos >= len(s.src) {
			return token{}, s.errorf("unterminated string")
		}
		r := s.advance()
		if r == '\n' {
			return token{}, s.errorf("unterminated string")
		}
		if r == quote {
			return token{kind: tokString, text: sb.String(), line: line}, nil
		}
		if r == '\\' {
			if s.pos >= len(s.src) {
				return token{}, s.errorf("unterminated string escape")
			}
			esc := s.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			default:
				return token{}, s.errorf("unsupported string escape %q", esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
}

func (s *scanner) scanNumber() (token, error) {
	line := s.line
	var sb strings.Builder
	if r := s.peek(); r == '-' || r == '+' {
		sb.WriteRune(s.advance())
	}
	digits := 0
	for s.pos < len(s.src) {
		r := s.peek()
		if unicode.IsDigit(r) {
			digits++
			sb.WriteRune(s.advance())
			continue
		}
		if r == '.' {
			// A dot is part of the number only when followed by a digit,
			// so selectors like "a.b" lex as idents and dots.
			if s.pos+1 < len(s.src) && unicode.IsDigit(s.src[s.pos+1]) {
				sb.WriteRune(s.advance())
				continue
			}
			break
		}
		if r == 'e' || r == 'E' {
			sb.WriteRune(s.advance())
			if n := s.peek(); n == '-' || n == '+' {
				sb.WriteRune(s.advance())
			}
			continue
		}
		break
	}
	if digits == 0 {
		return token{}, s.errorf("malformed number %q", sb.String())
	}
	return token{kind: tokNumber, text: sb.String(), line: line}, nil
}

func (s *scanner) scanIdent() (token, error) {
	line := s.line
	var sb strings.Builder
	for s.pos < len(s.src) {
		r := s.peek()
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(s.advance())
			continue
		}
		break
	}
	return token{kind: tokIdent, text: sb.String(), line: line}, nil
}
