package jxc

import (
	"errors"
)

// ErrEndOfElements is returned by ElementParser.Next once the document
// has been fully consumed and only trivia remains.
var ErrEndOfElements = errors.New("jxc: end of element stream")

type epFrameKind int

const (
	epFrameArray epFrameKind = iota
	epFrameObject
	epFrameExpression
)

// epObjectState tracks where an object frame is within one key/value
// pair: have we just opened (or separated), read a key and need a
// colon, or read a colon and need a value.
type epObjectState int

const (
	epObjectWantKey epObjectState = iota
	epObjectWantColon
	epObjectWantValue
)

type epFrame struct {
	kind epFrameKind
	// expectSeparatorOrClose is true immediately after a peer (array
	// element, or object key/value pair) has been fully parsed: the
	// next significant token must be ',', a LineBreak standing in for
	// ',', or the frame's closer.
	expectSeparatorOrClose bool
	gotAny                 bool
	objectState            epObjectState
	openTok                Token
}

// rootState tracks the implicit top-level frame: spec.md's grammar
// is "document := value", so exactly one value is expected, then EOF.
type rootState int

const (
	rootWantValue rootState = iota
	rootWantEOF
	rootDone
)

// ElementParser consumes a Lexer's token stream and emits one Element
// at a time, tracking the nesting stack described in spec.md §4.2.
type ElementParser struct {
	name string
	lx   *Lexer

	bufTok  *Token
	bufErr  error
	bufSet  bool
	lexDone bool

	stack []*epFrame
	root  rootState

	sawLineBreak bool
	pending      []Element
}

// NewElementParser creates an element parser over the given source.
func NewElementParser(name, src string) *ElementParser {
	return &ElementParser{
		name: name,
		lx:   NewLexer(name, src),
		root: rootWantValue,
	}
}

// Elements drains text into a full slice of Elements, or the first
// error encountered.
func Elements(text string) ([]Element, error) {
	ep := NewElementParser("<string>", text)
	var out []Element
	for {
		el, err := ep.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfElements) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, el)
	}
}

// Next returns the next Element in the stream, or ErrEndOfElements
// once the document (and any trailing comments) has been exhausted.
func (p *ElementParser) Next() (Element, error) {
	for {
		if len(p.pending) > 0 {
			e := p.pending[0]
			p.pending = p.pending[1:]
			return e, nil
		}
		if p.root == rootDone {
			return Element{}, ErrEndOfElements
		}
		if err := p.step(); err != nil {
			return Element{}, err
		}
	}
}

// peekRaw/consumeRaw provide one token of lookahead over the Lexer
// without interpreting it.
func (p *ElementParser) peekRaw() (Token, error) {
	if !p.bufSet {
		if p.lexDone {
			return Token{Type: TokenEndOfStream}, nil
		}
		tok := p.lx.NextToken()
		if p.lx.errored {
			p.bufErr = p.lx.error()
			p.bufSet = true
			return Token{}, p.bufErr
		}
		p.bufTok = &tok
		p.bufSet = true
		if tok.Type == TokenEndOfStream {
			p.lexDone = true
		}
	}
	if p.bufErr != nil {
		return Token{}, p.bufErr
	}
	return *p.bufTok, nil
}

func (p *ElementParser) consumeRaw() (Token, error) {
	tok, err := p.peekRaw()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != TokenEndOfStream {
		p.bufSet = false
	}
	return tok, nil
}

// consumeTrivia skips LineBreak tokens (recording that one was seen,
// for the comma-omission rule) and turns Comment tokens directly into
// queued Comment elements.
func (p *ElementParser) consumeTrivia() error {
	for {
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenLineBreak:
			p.sawLineBreak = true
			if _, err := p.consumeRaw(); err != nil {
				return err
			}
		case TokenComment:
			if _, err := p.consumeRaw(); err != nil {
				return err
			}
			p.pending = append(p.pending, Element{Type: ElementComment, Token: tok})
		default:
			return nil
		}
	}
}

func (p *ElementParser) topFrame() *epFrame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *ElementParser) pushFrame(f *epFrame) { p.stack = append(p.stack, f) }

func (p *ElementParser) popFrame() {
	p.stack = p.stack[:len(p.stack)-1]
}

// step advances the state machine by exactly one structural element,
// appending it (and any comments encountered along the way) to
// p.pending.
func (p *ElementParser) step() error {
	frame := p.topFrame()
	if frame == nil {
		return p.stepRoot()
	}
	switch frame.kind {
	case epFrameArray:
		return p.stepArray(frame)
	case epFrameObject:
		return p.stepObject(frame)
	case epFrameExpression:
		return p.stepExpression(frame)
	default:
		return newStructureError("elemparser", Token{}, "internal error: unknown frame kind")
	}
}

func (p *ElementParser) stepRoot() error {
	switch p.root {
	case rootWantValue:
		p.sawLineBreak = false
		el, err := p.parseValue()
		if err != nil {
			return err
		}
		p.root = rootWantEOF
		p.pending = append(p.pending, el)
		return nil
	case rootWantEOF:
		if err := p.consumeTrivia(); err != nil {
			return err
		}
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		if tok.Type != TokenEndOfStream {
			return newStructureError("elemparser", tok, "unexpected trailing content after document value")
		}
		p.root = rootDone
		return nil
	default:
		p.root = rootDone
		return nil
	}
}

// stepArray handles one step of an array frame: spec.md §4.2's array
// = "[" (value ("," value)* ","?)? "]".
func (p *ElementParser) stepArray(frame *epFrame) error {
	if frame.expectSeparatorOrClose {
		if err := p.consumeTrivia(); err != nil {
			return err
		}
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		if tok.Type == TokenSquareBracketClose {
			p.consumeRaw()
			p.popFrame()
			p.pending = append(p.pending, Element{Type: ElementEndArray, Token: tok})
			return nil
		}
		if tok.Type == TokenComma {
			p.consumeRaw()
			frame.expectSeparatorOrClose = false
			p.sawLineBreak = false
			return p.stepArray(frame)
		}
		if p.sawLineBreak {
			frame.expectSeparatorOrClose = false
			return p.stepArray(frame)
		}
		return newStructureError("elemparser", tok, "expected ',' or newline between array elements")
	}

	if err := p.consumeTrivia(); err != nil {
		return err
	}
	tok, err := p.peekRaw()
	if err != nil {
		return err
	}
	if tok.Type == TokenSquareBracketClose {
		p.consumeRaw()
		p.popFrame()
		p.pending = append(p.pending, Element{Type: ElementEndArray, Token: tok})
		return nil
	}
	p.sawLineBreak = false
	el, err := p.parseValue()
	if err != nil {
		return err
	}
	frame.expectSeparatorOrClose = true
	frame.gotAny = true
	p.pending = append(p.pending, el)
	return nil
}

// stepObject handles one step of an object frame: spec.md §4.2's
// object = "{" (pair ("," pair)* ","?)? "}".
func (p *ElementParser) stepObject(frame *epFrame) error {
	if frame.expectSeparatorOrClose {
		if err := p.consumeTrivia(); err != nil {
			return err
		}
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		if tok.Type == TokenBraceClose {
			p.consumeRaw()
			p.popFrame()
			p.pending = append(p.pending, Element{Type: ElementEndObject, Token: tok})
			return nil
		}
		if tok.Type == TokenComma {
			p.consumeRaw()
			frame.expectSeparatorOrClose = false
			p.sawLineBreak = false
			return p.stepObject(frame)
		}
		if p.sawLineBreak {
			frame.expectSeparatorOrClose = false
			return p.stepObject(frame)
		}
		return newStructureError("elemparser", tok, "expected ',' or newline between object pairs")
	}

	switch frame.objectState {
	case epObjectWantKey:
		if err := p.consumeTrivia(); err != nil {
			return err
		}
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		if tok.Type == TokenBraceClose {
			p.consumeRaw()
			p.popFrame()
			p.pending = append(p.pending, Element{Type: ElementEndObject, Token: tok})
			return nil
		}
		keyTok, err := p.parseObjectKeyToken()
		if err != nil {
			return err
		}
		frame.objectState = epObjectWantColon
		p.pending = append(p.pending, Element{Type: ElementObjectKey, Token: keyTok})
		return nil

	case epObjectWantColon:
		if err := p.consumeTrivia(); err != nil {
			return err
		}
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		if tok.Type != TokenColon {
			return newStructureError("elemparser", tok, "expected ':' after object key")
		}
		p.consumeRaw()
		frame.objectState = epObjectWantValue
		return p.stepObject(frame)

	case epObjectWantValue:
		p.sawLineBreak = false
		el, err := p.parseValue()
		if err != nil {
			return err
		}
		frame.objectState = epObjectWantKey
		frame.expectSeparatorOrClose = true
		frame.gotAny = true
		p.pending = append(p.pending, el)
		return nil
	}
	return newStructureError("elemparser", Token{}, "internal error: unknown object state")
}

// stepExpression handles one step inside "(...)": every enclosed
// token becomes an ExpressionToken, except a nested "(" which opens a
// fresh expression level (spec.md §4.2).
func (p *ElementParser) stepExpression(frame *epFrame) error {
	for {
		tok, err := p.peekRaw()
		if err != nil {
			return err
		}
		switch tok.Type {
		case TokenEndOfStream:
			return newStructureError("elemparser", frame.openTok, "expression not closed, got end of input")
		case TokenComment:
			p.consumeRaw()
			p.pending = append(p.pending, Element{Type: ElementComment, Token: tok})
			return nil
		case TokenLineBreak:
			p.consumeRaw()
			continue
		case TokenParenClose:
			p.consumeRaw()
			p.lx.ExitExpression()
			p.popFrame()
			p.pending = append(p.pending, Element{Type: ElementEndExpression, Token: tok})
			return nil
		case TokenParenOpen:
			p.consumeRaw()
			p.lx.EnterExpression()
			p.pushFrame(&epFrame{kind: epFrameExpression, openTok: tok})
			p.pending = append(p.pending, Element{Type: ElementBeginExpression, Token: tok})
			return nil
		default:
			p.consumeRaw()
			p.pending = append(p.pending, Element{Type: ElementExpressionToken, Token: tok})
			return nil
		}
	}
}

// parseObjectKeyToken consumes and validates one object key token per
// spec.md §6.1's key grammar: string | ident_key | integer | null |
// true | false.
func (p *ElementParser) parseObjectKeyToken() (Token, error) {
	tok, err := p.peekRaw()
	if err != nil {
		return Token{}, err
	}
	switch tok.Type {
	case TokenString, TokenIdentifier, TokenObjectKeyIdentifier, TokenNull, TokenTrue, TokenFalse:
		p.consumeRaw()
		return tok, nil
	case TokenNumber:
		d, derr := SplitNumber(tok)
		if derr != nil {
			return Token{}, newStructureError("elemparser", tok, "malformed integer object key")
		}
		if d.IsFloat() {
			return Token{}, newStructureError("elemparser", tok, "object key numbers must be integers")
		}
		p.consumeRaw()
		return tok, nil
	default:
		return Token{}, newStructureError("elemparser", tok, "expected an object key, got %s", tok.Type)
	}
}

// parseValue parses one "annotation? bare_value" production starting
// at the current position, pushing a new frame for container values.
func (p *ElementParser) parseValue() (Element, error) {
	if err := p.consumeTrivia(); err != nil {
		return Element{}, err
	}
	tok, err := p.peekRaw()
	if err != nil {
		return Element{}, err
	}

	var anno []Token
	if tok.Type == TokenExclamationPoint || tok.Type == TokenIdentifier || tok.Type == TokenObjectKeyIdentifier {
		anno, err = p.parseAnnotationTokens()
		if err != nil {
			return Element{}, err
		}
		if err := p.consumeTrivia(); err != nil {
			return Element{}, err
		}
		tok, err = p.peekRaw()
		if err != nil {
			return Element{}, err
		}
	}

	switch tok.Type {
	case TokenNull, TokenTrue, TokenFalse, TokenNumber, TokenString, TokenByteString, TokenDateTime:
		p.consumeRaw()
		return Element{Type: ElementValue, Token: tok, Annotation: anno}, nil
	case TokenSquareBracketOpen:
		p.consumeRaw()
		p.pushFrame(&epFrame{kind: epFrameArray, openTok: tok})
		return Element{Type: ElementBeginArray, Token: tok, Annotation: anno}, nil
	case TokenBraceOpen:
		p.consumeRaw()
		p.pushFrame(&epFrame{kind: epFrameObject, openTok: tok})
		return Element{Type: ElementBeginObject, Token: tok, Annotation: anno}, nil
	case TokenParenOpen:
		p.consumeRaw()
		p.lx.EnterExpression()
		p.pushFrame(&epFrame{kind: epFrameExpression, openTok: tok})
		return Element{Type: ElementBeginExpression, Token: tok, Annotation: anno}, nil
	default:
		return Element{}, newStructureError("elemparser", tok, "expected a value, got %s", tok.Type)
	}
}
