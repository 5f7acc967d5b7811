package jxc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// eof represents the end-of-input rune the lexer's next()/peek() return
// once the buffer is exhausted. -1 is not a valid rune value, so it
// cannot collide with real input (mirrors the teacher's EOF sentinel).
const eof rune = -1

// lexerStateFn is a single state in the lexer's state machine. Each
// state processes input and returns the next state to run, or nil to
// terminate lexing of the current token.
type lexerStateFn func(l *Lexer) lexerStateFn

// Lexer turns a JXC source buffer into a stream of Tokens, one call to
// NextToken at a time. It is the sole owner of the byte buffer's
// cursor; per spec.md §5 a single Lexer is not safe to share across
// goroutines, though independent Lexer instances over disjoint buffers
// may run in parallel.
type Lexer struct {
	name  string
	input string

	start int
	pos   int
	width int

	line      int
	col       int
	startline int
	startcol  int

	// exprDepth counts nested '(' expression contexts in which runs of
	// operator characters fuse into a single ExpressionOperator token
	// instead of lexing as individual punctuation.
	exprDepth int

	pending []Token
	errored bool
	errTok  Token
}

// NewLexer creates a lexer over the given source buffer. name is used
// only for error reporting.
func NewLexer(name, input string) *Lexer {
	return &Lexer{
		name:      name,
		input:     input,
		line:      1,
		col:       1,
		startline: 1,
		startcol:  1,
	}
}

// Lex drains the lexer to EndOfStream (inclusive) and returns the
// full token slice, or the first lexical error encountered. It enters
// and leaves expression mode at each "(" and ")" token, as the element
// parser does.
func Lex(text string) ([]Token, error) {
	return LexNamed("<string>", text)
}

// LexNamed is Lex with an explicit buffer name for error messages.
func LexNamed(name, text string) ([]Token, error) {
	l := NewLexer(name, text)
	var out []Token
	for {
		tok := l.NextToken()
		if l.errored {
			return nil, l.error()
		}
		out = append(out, tok)
		switch tok.Type {
		case TokenParenOpen:
			l.EnterExpression()
		case TokenParenClose:
			l.ExitExpression()
		}
		if tok.Type == TokenEndOfStream {
			break
		}
	}
	return out, nil
}

func (l *Lexer) error() error {
	return &Error{
		Kind:     LexError,
		Sender:   "lexer",
		Filename: l.name,
		StartIdx: l.errTok.StartIdx,
		EndIdx:   l.errTok.EndIdx,
		Line:     l.errTok.Line,
		Col:      l.errTok.Col,
		Message:  l.errTok.Value,
	}
}

// NextToken returns the next token in the stream. Once EndOfStream has
// been returned, further calls keep returning EndOfStream. On a
// lexical error, an Invalid token is returned and l.errored is set;
// callers should stop calling NextToken.
func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	if l.errored {
		return l.errTok
	}
	return l.scanOne()
}

// EnterExpression tells the lexer to begin fusing runs of operator
// characters into ExpressionOperator tokens, used inside "(...)"
// expression bodies. Annotation "<...>" bodies are lexed in normal mode.
func (l *Lexer) EnterExpression() { l.exprDepth++ }

// ExitExpression undoes EnterExpression.
func (l *Lexer) ExitExpression() {
	if l.exprDepth > 0 {
		l.exprDepth--
	}
}

func (l *Lexer) value() string { return l.input[l.start:l.pos] }
func (l *Lexer) length() int   { return l.pos - l.start }

func (l *Lexer) makeToken(t TokenType) Token {
	tok := Token{
		Type:     t,
		StartIdx: l.start,
		EndIdx:   l.pos - 1,
		Line:     l.startline,
		Col:      l.startcol,
	}
	if t.hasValue() {
		tok.Value = l.value()
	}
	l.start = l.pos
	l.startline = l.line
	l.startcol = l.col
	return tok
}

func (l *Lexer) ignore() {
	l.start = l.pos
	l.startline = l.line
	l.startcol = l.col
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) backup() {
	if l.width == 0 {
		// The last next() returned eof and consumed nothing.
		return
	}
	l.pos -= l.width
	if l.input[l.pos] == '\n' {
		l.line--
		lineStart := strings.LastIndexByte(l.input[:l.pos], '\n') + 1
		l.col = utf8.RuneCountInString(l.input[lineStart:l.pos]) + 1
	} else {
		l.col--
	}
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+offset:])
	return r
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	if l.width > 0 {
		l.backup()
	}
	return false
}

func (l *Lexer) acceptFunc(valid func(rune) bool) bool {
	if valid(l.next()) {
		return true
	}
	if l.width > 0 {
		l.backup()
	}
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	if l.width > 0 {
		l.backup()
	}
}

func (l *Lexer) acceptRunFunc(valid func(rune) bool) {
	for valid(l.next()) {
	}
	if l.width > 0 {
		l.backup()
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) errorf(format string, args ...any) Token {
	l.errored = true
	l.errTok = Token{
		Type:     TokenInvalid,
		Value:    fmt.Sprintf(format, args...),
		StartIdx: l.start,
		EndIdx:   l.pos,
		Line:     l.startline,
		Col:      l.startcol,
	}
	return l.errTok
}

const (
	identStartChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$"
	identChars      = identStartChars + "0123456789"
	digitChars      = "0123456789"
	objectKeyExtra  = "*."
)

var keywordTokenTypes = map[string]TokenType{
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
}

// scanOne tokenizes exactly one token starting at the current
// position, skipping whitespace and comments first.
func (l *Lexer) scanOne() Token {
	for {
		l.ignore()
		r := l.peek()
		switch {
		case r == eof:
			return l.makeToken(TokenEndOfStream)
		case r == ' ' || r == '\t':
			l.next()
			l.ignore()
			continue
		case r == '\r':
			l.next()
			l.ignore()
			continue
		case r == '\n':
			l.next()
			return l.makeToken(TokenLineBreak)
		case r == '#':
			l.scanComment()
			return l.makeToken(TokenComment)
		}
		break
	}

	r := l.peek()
	switch {
	case strings.ContainsRune(identStartChars, r):
		return l.scanIdentifier()
	case r >= '0' && r <= '9':
		return l.scanNumber()
	case (r == '+' || r == '-') && l.exprDepth == 0 && isDigitOrInfNanStart(l.peekAt(1)):
		return l.scanNumber()
	case r == '"' || r == '\'':
		return l.scanQuotedOrPrefixed(r)
	}

	if l.exprDepth > 0 && strings.ContainsRune(expressionOperatorChars, r) {
		return l.scanExpressionOperator()
	}

	return l.scanPunctuation()
}

func isDigitOrInfNanStart(r rune) bool {
	return (r >= '0' && r <= '9') || r == 'i' || r == 'n'
}

func (l *Lexer) scanComment() {
	for {
		r := l.peek()
		if r == eof || r == '\n' {
			break
		}
		l.next()
	}
}

// scanIdentifier lexes an identifier, keyword, or (in key position, a
// concern left to the element parser) an ObjectKeyIdentifier. The
// lexer itself always emits the widest form it recognizes: an
// identifier extended with '.'/'*' becomes TokenObjectKeyIdentifier,
// otherwise a plain identifier/keyword token is emitted.
func (l *Lexer) scanIdentifier() Token {
	l.acceptRun(identChars)

	// Recognize special bare-word literals that must match exactly.
	switch l.value() {
	case "true", "false", "null":
		return l.makeToken(keywordTokenTypes[l.value()])
	case "nan":
		return l.makeToken(TokenNumber)
	case "inf":
		return l.makeToken(TokenNumber)
	case "r":
		if q := l.peek(); q == '"' || q == '\'' {
			return l.scanRawHeredoc(q)
		}
	case "b64":
		if q := l.peek(); q == '"' || q == '\'' {
			return l.scanDelimitedPayload(q, TokenByteString)
		}
	case "dt":
		if q := l.peek(); q == '"' || q == '\'' {
			return l.scanDelimitedPayload(q, TokenDateTime)
		}
	}

	// Extended object-key form: a.b, a.*.c -- only dots and stars may
	// appear as continuations after an identifier run.
	extended := false
	for {
		r := l.peek()
		if r == '.' || r == '*' {
			nxt := l.peekAt(1)
			if strings.ContainsRune(identChars, nxt) || nxt == '*' || nxt == '.' {
				l.next()
				l.acceptRun(identChars)
				extended = true
				continue
			}
		}
		break
	}
	if extended {
		return l.makeToken(TokenObjectKeyIdentifier)
	}
	return l.makeToken(TokenIdentifier)
}

// scanNumber lexes a numeric literal per spec.md §4.1's grammar:
// sign? (base_prefix digits | digits ('.' digits)? exp?) suffix?
// It also recognizes the bare inf/-inf/+inf/nan literal forms fused
// with an adjacent sign.
func (l *Lexer) scanNumber() Token {
	l.accept("+-")

	if l.hasPrefix("inf") {
		l.pos += 3
		l.col += 3
		l.acceptRun(identChars)
		return l.makeToken(TokenNumber)
	}
	if l.hasPrefix("nan") {
		l.pos += 3
		l.col += 3
		l.acceptRun(identChars)
		return l.makeToken(TokenNumber)
	}

	prefix := NumberPrefix(PrefixNone)
	prefixLiteral := ""
	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x', 'X':
			prefix, prefixLiteral = PrefixHex, "0x"
		case 'o', 'O':
			prefix, prefixLiteral = PrefixOctal, "0o"
		case 'b', 'B':
			prefix, prefixLiteral = PrefixBinary, "0b"
		}
	}

	if prefix != PrefixNone {
		l.pos += 2
		l.col += 2
		isDigit := func(r rune) bool { return digitValueInBase(r, prefix) }
		if !l.acceptFunc(isDigit) {
			return l.errorf("malformed numeric literal: expected digits after %q prefix", prefixLiteral)
		}
		l.acceptRunFunc(isDigit)
	} else {
		l.acceptRun(digitChars)
		if l.peek() == '.' && strings.ContainsRune(digitChars, l.peekAt(1)) {
			l.next() // consume '.'
			l.acceptRun(digitChars)
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			save := l.pos
			saveCol := l.col
			l.next()
			l.accept("+-")
			if l.accept(digitChars) {
				l.acceptRun(digitChars)
			} else {
				l.pos = save
				l.col = saveCol
			}
		}
	}

	// Optional alphabetic/percent suffix.
	if r := l.peek(); r == '%' {
		l.next()
	} else if strings.ContainsRune(identStartChars, r) {
		l.acceptRun(identChars)
	}

	return l.makeToken(TokenNumber)
}

// scanQuotedOrPrefixed lexes a string that starts at a bare quote, which
// is always a standard string. The prefixed r/b64/dt forms are
// recognized in scanIdentifier, which sees the prefix first.
func (l *Lexer) scanQuotedOrPrefixed(quote rune) Token {
	return l.scanStandardString(quote)
}

func (l *Lexer) scanStandardString(quote rune) Token {
	l.next() // consume opening quote
	for {
		r := l.next()
		switch r {
		case eof:
			return l.errorf("unterminated string literal")
		case '\n':
			return l.errorf("newline not permitted inside a quoted string")
		case '\\':
			if l.next() == eof {
				return l.errorf("unterminated escape sequence in string literal")
			}
		case quote:
			return l.makeToken(TokenString)
		}
	}
}

// scanRawHeredoc lexes r"TAG(body)TAG" / r'TAG(body)TAG'. Called once
// the leading "r" identifier prefix has been recognized by the caller;
// l.pos must be positioned at the quote character.
func (l *Lexer) scanRawHeredoc(quote rune) Token {
	l.next() // consume opening quote
	tagStart := l.pos
	for isValidHeredocTagChar(l.peek()) {
		if l.pos-tagStart >= 16 {
			return l.errorf("raw string heredoc tag too long (max 16 characters)")
		}
		l.next()
	}
	tag := l.input[tagStart:l.pos]
	if l.peek() != '(' {
		return l.errorf("expected '(' to open raw string body after tag %q", tag)
	}
	l.next() // consume '('

	closer := ")" + tag + string(quote)
	bodyStart := l.pos
	idx := strings.Index(l.input[l.pos:], closer)
	if idx < 0 {
		return l.errorf("raw string heredoc not closed (expected %q)", closer)
	}
	bodyEnd := l.pos + idx
	for l.pos < bodyEnd {
		l.next()
	}
	body := l.input[bodyStart:bodyEnd]
	l.pos += len(closer)
	l.col += len(closer)

	tok := Token{
		Type:     TokenString,
		StartIdx: l.start,
		EndIdx:   l.pos - 1,
		Value:    body,
		Tag:      tag,
		Line:     l.startline,
		Col:      l.startcol,
	}
	l.start = l.pos
	l.startline = l.line
	l.startcol = l.col
	return tok
}

// scanDelimitedPayload lexes the "..." body for a b64/dt prefixed
// string, without interpreting escapes (escapes are not part of the
// b64/dt grammar).
func (l *Lexer) scanDelimitedPayload(quote rune, tokType TokenType) Token {
	l.next() // consume opening quote
	bodyStart := l.pos
	for {
		r := l.next()
		switch r {
		case eof:
			return l.errorf("unterminated string literal")
		case '\n':
			return l.errorf("newline not permitted inside a string literal")
		case quote:
			body := l.input[bodyStart : l.pos-1]
			tok := Token{
				Type:     tokType,
				StartIdx: l.start,
				EndIdx:   l.pos - 1,
				Value:    body,
				Line:     l.startline,
				Col:      l.startcol,
			}
			l.start = l.pos
			l.startline = l.line
			l.startcol = l.col
			return tok
		}
	}
}

func (l *Lexer) scanExpressionOperator() Token {
	l.acceptRun(expressionOperatorChars)
	return l.makeToken(TokenExpressionOperator)
}

func (l *Lexer) scanPunctuation() Token {
	r := l.peek()
	typ, ok := singleCharTokens[r]
	if !ok {
		return l.errorf("unexpected character %q", r)
	}
	l.next()
	return l.makeToken(typ)
}
