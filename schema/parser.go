package schema

import (
	"strconv"

	"github.com/M1tsumi/ZeroProto/errs"
)

// parser is a recursive-descent parser over the token stream. It builds an
// AST without resolving names; trailing commas and stray semicolons between
// members are tolerated.
type parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses schema source into an AST. Errors are returned
// as *Diagnostic values wrapping errs.ErrUnexpectedChar or errs.ErrParse.
func Parse(src string) (*File, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	return p.parseFile()
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, newDiagnostic(errs.ErrParse, tok.Span,
			"expected %s, found %s", kind, tok.Kind)
	}

	return p.advance(), nil
}

// eatSeparators consumes any run of commas and semicolons.
func (p *parser) eatSeparators() {
	for {
		kind := p.peek().Kind
		if kind != TokenComma && kind != TokenSemicolon {
			return
		}
		p.advance()
	}
}

func (p *parser) parseFile() (*File, error) {
	file := &File{}

	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF:
			return file, nil
		case TokenKwMessage:
			decl, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, decl)
		case TokenKwEnum:
			decl, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, decl)
		default:
			return nil, newDiagnostic(errs.ErrParse, tok.Span,
				"expected 'message' or 'enum', found %s", tok.Kind)
		}
	}
}

func (p *parser) parseMessage() (*MessageDecl, error) {
	p.advance() // message keyword

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	decl := &MessageDecl{Name: name.Text, Span: name.Span}

	for {
		p.eatSeparators()

		if p.peek().Kind == TokenRBrace {
			p.advance()

			return decl, nil
		}

		field, err := p.parseField()
		if err != nil {
			return nil, err
		}

		decl.Fields = append(decl.Fields, *field)
	}
}

func (p *parser) parseField() (*FieldDecl, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	fieldType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	field := &FieldDecl{Name: name.Text, Type: *fieldType, Span: name.Span}

	if p.peek().Kind == TokenQuestion {
		p.advance()
		field.Optional = true
	}

	if p.peek().Kind == TokenEquals {
		p.advance()

		def, err := p.parseDefaultValue()
		if err != nil {
			return nil, err
		}
		field.Default = def
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return field, nil
}

func (p *parser) parseType() (*FieldType, error) {
	tok := p.peek()

	if tok.Kind == TokenLBracket {
		p.advance()

		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}

		return &FieldType{Kind: TypeVector, Elem: elem, Span: tok.Span}, nil
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if tag, ok := scalarTypes[name.Text]; ok {
		return &FieldType{Kind: TypeScalar, Tag: tag, Span: name.Span}, nil
	}

	return &FieldType{Kind: TypeNamed, Name: name.Text, Span: name.Span}, nil
}

func (p *parser) parseDefaultValue() (*DefaultValue, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenInt:
		p.advance()

		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, newDiagnostic(errs.ErrParse, tok.Span,
				"integer literal %q out of range", tok.Text)
		}

		return &DefaultValue{Kind: DefaultInt, Int: v, Span: tok.Span}, nil
	case TokenFloat:
		p.advance()

		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, newDiagnostic(errs.ErrParse, tok.Span,
				"float literal %q out of range", tok.Text)
		}

		return &DefaultValue{Kind: DefaultFloat, Float: v, Span: tok.Span}, nil
	case TokenKwTrue:
		p.advance()

		return &DefaultValue{Kind: DefaultBool, Bool: true, Span: tok.Span}, nil
	case TokenKwFalse:
		p.advance()

		return &DefaultValue{Kind: DefaultBool, Bool: false, Span: tok.Span}, nil
	case TokenString:
		p.advance()

		return &DefaultValue{Kind: DefaultString, String: unescape(tok.Text), Span: tok.Span}, nil
	default:
		return nil, newDiagnostic(errs.ErrParse, tok.Span,
			"expected default value, found %s", tok.Kind)
	}
}

func (p *parser) parseEnum() (*EnumDecl, error) {
	p.advance() // enum keyword

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	decl := &EnumDecl{Name: name.Text, Span: name.Span}

	for {
		p.eatSeparators()

		if p.peek().Kind == TokenRBrace {
			p.advance()

			return decl, nil
		}

		variant, err := p.parseEnumVariant()
		if err != nil {
			return nil, err
		}

		decl.Variants = append(decl.Variants, *variant)
	}
}

// parseEnumVariant parses "Name = value;". The '= value' clause is optional
// at the grammar level so that validation can report the missing value with
// the variant's span instead of a raw parse error.
func (p *parser) parseEnumVariant() (*EnumVariant, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	variant := &EnumVariant{Name: name.Text, Span: name.Span}

	if p.peek().Kind == TokenEquals {
		p.advance()

		value, err := p.expect(TokenInt)
		if err != nil {
			return nil, err
		}

		v, perr := strconv.ParseInt(value.Text, 10, 64)
		if perr != nil {
			return nil, newDiagnostic(errs.ErrParse, value.Span,
				"integer literal %q out of range", value.Text)
		}

		variant.Value = v
		variant.HasValue = true
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return variant, nil
}

// unescape resolves backslash escapes in a string literal body. Unknown
// escapes keep the escaped character as-is.
func unescape(s string) string {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out = append(out, s[i])

			continue
		}

		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		default:
			out = append(out, s[i])
		}
	}

	return string(out)
}
