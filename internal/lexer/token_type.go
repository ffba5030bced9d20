// Package lexer provides lexical analysis for the analyzed language.
//
// The grammar and its lexer tables are treated as an external contract
// (spec.md §1): this token set is deliberately the compact subset needed to
// recognize module/definition/open boundaries and the expressions used in
// the worked examples, not a full ML-family grammar.
package lexer

// TokenType identifies the lexical class of a Token.
type TokenType int

// Token type constants, grouped the way the teacher's token table is
// grouped (special, literals, keywords, punctuation, operators).
const (
	ILLEGAL TokenType = iota // unexpected character
	EOF                      // end of file
	COMMENT                  // (* ... *) block comment

	// Identifiers and literals.
	IDENT  // lowercase identifiers: x, foo_bar
	UIDENT // uppercase identifiers: module/constructor names, M, Some
	INT    // integer literals: 123, 0x2A, 0b101
	FLOAT  // float literals: 1.5, 1e10
	STRING // string literals: "hello"
	CHAR   // character literals: 'a'

	literalEnd // marker for end of literals section

	// Keywords — module system.
	MODULE // module
	STRUCT // struct
	SIG    // sig
	END    // end
	OPEN   // open
	INCLUDE

	// Keywords — bindings and control.
	LET      // let
	REC      // rec
	AND      // and
	IN       // in
	FUN      // fun
	FUNCTION // function
	MATCH    // match
	WITH     // with
	IF       // if
	THEN     // then
	ELSE     // else
	BEGIN    // begin

	// Keywords — declarations.
	TYPE      // type
	EXCEPTION // exception
	CLASS     // class
	VAL       // val (inside sig)
	MUTABLE   // mutable
	OF        // of

	// Keywords — literals/operators-as-words.
	TRUE
	FALSE

	// Punctuation.
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }
	SEMI       // ;
	SEMISEMI   // ;;
	COMMA      // ,
	DOT        // .
	COLON      // :
	COLONCOLON // ::
	PIPE       // |
	UNDERSCORE // _

	// Operators.
	EQ        // =
	ARROW     // ->
	FATARROW  // =>
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	LESS      // <
	GREATER   // >
	LESSEQ    // <=
	GREATEREQ // >=
	NOTEQ     // <>
	AMPAMP    // &&
	PIPEPIPE  // ||
	BANG      // !
	QUOTE     // ' (type variable prefix)
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", UIDENT: "UIDENT", INT: "INT", FLOAT: "FLOAT",
	STRING: "STRING", CHAR: "CHAR",
	MODULE: "module", STRUCT: "struct", SIG: "sig", END: "end",
	OPEN: "open", INCLUDE: "include",
	LET: "let", REC: "rec", AND: "and", IN: "in", FUN: "fun",
	FUNCTION: "function", MATCH: "match", WITH: "with",
	IF: "if", THEN: "then", ELSE: "else", BEGIN: "begin",
	TYPE: "type", EXCEPTION: "exception", CLASS: "class", VAL: "val",
	MUTABLE: "mutable", OF: "of", TRUE: "true", FALSE: "false",
	LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]",
	LBRACE: "{", RBRACE: "}", SEMI: ";", SEMISEMI: ";;", COMMA: ",",
	DOT: ".", COLON: ":", COLONCOLON: "::", PIPE: "|", UNDERSCORE: "_",
	EQ: "=", ARROW: "->", FATARROW: "=>", PLUS: "+", MINUS: "-",
	STAR: "*", SLASH: "/", LESS: "<", GREATER: ">", LESSEQ: "<=",
	GREATEREQ: ">=", NOTEQ: "<>", AMPAMP: "&&", PIPEPIPE: "||",
	BANG: "!", QUOTE: "'",
}

// String returns the display name of a token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps identifier spellings to their keyword token type. Unlike
// the teacher's Pascal-family grammar, this language is case-sensitive:
// keywords never match UIDENT-cased spellings.
var keywords = map[string]TokenType{
	"module": MODULE, "struct": STRUCT, "sig": SIG, "end": END,
	"open": OPEN, "include": INCLUDE,
	"let": LET, "rec": REC, "and": AND, "in": IN, "fun": FUN,
	"function": FUNCTION, "match": MATCH, "with": WITH,
	"if": IF, "then": THEN, "else": ELSE, "begin": BEGIN,
	"type": TYPE, "exception": EXCEPTION, "class": CLASS, "val": VAL,
	"mutable": MUTABLE, "of": OF, "true": TRUE, "false": FALSE,
}

// LookupIdent classifies an identifier as a keyword or as IDENT/UIDENT
// based on the case of its first rune.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if len(ident) > 0 && ident[0] >= 'A' && ident[0] <= 'Z' {
		return UIDENT
	}
	return IDENT
}

// IsTopLevelStarter reports whether a token type can begin a new top-level
// chunk. The chunker's error-recovery synchronization (spec.md §4.2 state 3)
// resumes at the next token for which this holds.
func IsTopLevelStarter(t TokenType) bool {
	switch t {
	case LET, MODULE, OPEN, TYPE, EXCEPTION, CLASS, INCLUDE, EOF:
		return true
	default:
		return false
	}
}
