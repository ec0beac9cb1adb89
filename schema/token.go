package schema

// TokenKind identifies a lexical token class.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenString
	TokenKwMessage
	TokenKwEnum
	TokenKwTrue
	TokenKwFalse
	TokenColon
	TokenSemicolon
	TokenComma
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenEquals
	TokenQuestion
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:       "end of file",
	TokenIdent:     "identifier",
	TokenInt:       "integer",
	TokenFloat:     "float",
	TokenString:    "string literal",
	TokenKwMessage: "'message'",
	TokenKwEnum:    "'enum'",
	TokenKwTrue:    "'true'",
	TokenKwFalse:   "'false'",
	TokenColon:     "':'",
	TokenSemicolon: "';'",
	TokenComma:     "','",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenLBracket:  "'['",
	TokenRBracket:  "']'",
	TokenEquals:    "'='",
	TokenQuestion:  "'?'",
}

// String returns the human-readable name used in diagnostics.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}

	return "unknown token"
}

// Token is one lexical unit with its source span. Text holds the raw source
// slice for identifiers and literals; punctuation and keywords leave it empty.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

var keywords = map[string]TokenKind{
	"message": TokenKwMessage,
	"enum":    TokenKwEnum,
	"true":    TokenKwTrue,
	"false":   TokenKwFalse,
}
