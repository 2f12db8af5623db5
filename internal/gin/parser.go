package gin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/keypath"
)

// parser consumes the token stream of a single file and produces the
// file's bindings, macros, and imports.
type parser struct {
	scan *scanner
	path string
	tok  token
}

// ParseFile parses gin source text into the config model's file form.
// Errors carry the file path and line of the offending token.
func ParseFile(path, src string) (*config.File, error) {
	p := &parser{scan: newScanner(src), path: path}
	if err := p.advance(); err != nil {
		return nil, p.wrap(err)
	}

	file := &config.File{Path: path}
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokNewline {
			if err := p.advance(); err != nil {
				return nil, p.wrap(err)
			}
			continue
		}
		if err := p.parseStatement(file); err != nil {
			return nil, p.wrap(err)
		}
	}
	return file, nil
}

func (p *parser) wrap(err error) error {
	if p.path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", p.path, err)
}

func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, p.errorf("expected %s, found %s", kind, p.describe())
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) describe() string {
	if p.tok.kind == tokIdent || p.tok.kind == tokNumber {
		return fmt.Sprintf("%s %q", p.tok.kind, p.tok.text)
	}
	if p.tok.kind == tokString {
		return fmt.Sprintf("string %q", p.tok.text)
	}
	return p.tok.kind.String()
}

// parseStatement handles one logical line: an import or an assignment.
func (p *parser) parseStatement(file *config.File) error {
	pos := config.Pos{File: p.path, Line: p.tok.line}

	name, err := p.parseDottedName()
	if err != nil {
		return err
	}

	if name == "import" && p.tok.kind == tokIdent {
		module, err := p.parseDottedName()
		if err != nil {
			return err
		}
		file.Imports = append(file.Imports, module)
		return p.endStatement()
	}

	if _, err := p.expect(tokEquals); err != nil {
		return err
	}
	value, err := p.parseValue()
	if err != nil {
		return err
	}
	if err := p.endStatement(); err != nil {
		return err
	}

	sel, err := keypath.ParseSelector(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", pos.Line, err)
	}
	if sel.Configurable == "" {
		file.Macros = append(file.Macros, config.Macro{Name: sel.Param, Value: value, Pos: pos})
		return nil
	}
	file.Bindings = append(file.Bindings, config.Binding{
		Configurable: sel.Configurable,
		Param:        sel.Param,
		Value:        value,
		Pos:          pos,
	})
	return nil
}

// endStatement requires a newline or end of file after a statement.
func (p *parser) endStatement() error {
	switch p.tok.kind {
	case tokNewline:
		return p.advance()
	case tokEOF:
		return nil
	default:
		return p.errorf("unexpected %s after statement", p.describe())
	}
}

// parseDottedName reads IDENT ('.' IDENT)* and returns the joined form.
func (p *parser) parseDottedName() (string, error) {
	first, err := p.expect(tokIdent)
	if err != nil {
		return "", err
	}
	parts := []string{first.text}
	for p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return "", err
		}
		next, err := p.expect(tokIdent)
		if err != nil {
			return "", err
		}
		parts = append(parts, next.text)
	}
	return strings.Join(parts, "."), nil
}

func (p *parser) parseValue() (config.Value, error) {
	pos := config.Pos{File: p.path, Line: p.tok.line}

	switch p.tok.kind {
	case tokString:
		text := p.tok.text
		if err := p.advance(); err != nil {
			return config.Value{}, err
		}
		return config.Value{Kind: config.KindLiteral, Literal: cty.StringVal(text), Pos: pos}, nil

	case tokNumber:
		return p.parseNumber(pos)

	case tokIdent:
		return p.parseKeywordLiteral(pos)

	case tokLBracket:
		elems, err := p.parseSequence(tokLBracket, tokRBracket)
		if err != nil {
			return config.Value{}, err
		}
		return config.Value{Kind: config.KindList, Elems: elems, Pos: pos}, nil

	case tokLParen:
		elems, err := p.parseSequence(tokLParen, tokRParen)
		if err != nil {
			return config.Value{}, err
		}
		return config.Value{Kind: config.KindTuple, Elems: elems, Pos: pos}, nil

	case tokLBrace:
		return p.parseDict(pos)

	case tokAt:
		return p.parseReference(pos)

	case tokPercent:
		if err := p.advance(); err != nil {
			return config.Value{}, err
		}
		name, err := p.parseDottedName()
		if err != nil {
			return config.Value{}, err
		}
		return config.Value{Kind: config.KindMacro, Macro: name, Pos: pos}, nil

	default:
		return config.Value{}, p.errorf("expected a value, found %s", p.describe())
	}
}

func (p *parser) parseNumber(pos config.Pos) (config.Value, error) {
	text := p.tok.text
	if err := p.advance(); err != nil {
		return config.Value{}, err
	}
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return config.Value{}, fmt.Errorf("line %d: invalid number %q", pos.Line, text)
		}
		return config.Value{Kind: config.KindLiteral, Literal: cty.NumberFloatVal(f), Pos: pos}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return config.Value{}, fmt.Errorf("line %d: invalid number %q", pos.Line, text)
	}
	return config.Value{Kind: config.KindLiteral, Literal: cty.NumberIntVal(n), Pos: pos}, nil
}

func (p *parser) parseKeywordLiteral(pos config.Pos) (config.Value, error) {
	text := p.tok.text
	if err := p.advance(); err != nil {
		return config.Value{}, err
	}
	switch text {
	case "True":
		return config.Value{Kind: config.KindLiteral, Literal: cty.True, Pos: pos}, nil
	case "False":
		return config.Value{Kind: config.KindLiteral, Literal: cty.False, Pos: pos}, nil
	case "None":
		return config.Value{Kind: config.KindLiteral, Literal: cty.NullVal(cty.DynamicPseudoType), Pos: pos}, nil
	default:
		return config.Value{}, fmt.Errorf("line %d: bare identifier %q is not a value; did you mean %q or %q", pos.Line, text, "@"+text, "%"+text)
	}
}

// parseSequence reads a bracketed, comma-separated value list with an
// optional trailing comma.
func (p *parser) parseSequence(open, close tokenKind) ([]config.Value, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var elems []config.Value
	for p.tok.kind != close {
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *parser) parseDict(pos config.Pos) (config.Value, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return config.Value{}, err
	}
	var entries []config.DictEntry
	for p.tok.kind != tokRBrace {
		key, err := p.expect(tokString)
		if err != nil {
			return config.Value{}, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return config.Value{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return config.Value{}, err
		}
		entries = append(entries, config.DictEntry{Key: key.text, Value: val})
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return config.Value{}, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return config.Value{}, err
	}
	return config.Value{Kind: config.KindDict, Entries: entries, Pos: pos}, nil
}

func (p *parser) parseReference(pos config.Pos) (config.Value, error) {
	if err := p.advance(); err != nil {
		return config.Value{}, err
	}
	selector, err := p.parseDottedName()
	if err != nil {
		return config.Value{}, err
	}
	ref := &config.Reference{Selector: selector}
	if p.tok.kind == tokLParen {
		if err := p.advance(); err != nil {
			return config.Value{}, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return config.Value{}, p.errorf("references do not take constructor arguments")
		}
		ref.Evaluated = true
	}
	return config.Value{Kind: config.KindReference, Ref: ref, Pos: pos}, nil
}
