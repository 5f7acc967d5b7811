package jxc

// parseAnnotationTokens recognizes the annotation sublanguage from
// spec.md §4.2/§6.1:
//
//	annotation := "!"? identifier ("." identifier)* ("<" anno_body ">")?
//
// The dotted identifier path is lexed as a single TokenIdentifier or
// TokenObjectKeyIdentifier token (the lexer fuses "." continuations
// eagerly, see scanIdentifier), so this only needs to handle the
// optional leading "!" and the optional balanced "<...>" parameter
// list. The returned slice is the flattened token sequence used for
// round-tripping, per spec.md §3 Element.
func (p *ElementParser) parseAnnotationTokens() ([]Token, error) {
	var anno []Token

	tok, err := p.peekRaw()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenExclamationPoint {
		p.consumeRaw()
		anno = append(anno, tok)
		tok, err = p.peekRaw()
		if err != nil {
			return nil, err
		}
	}

	if tok.Type != TokenIdentifier && tok.Type != TokenObjectKeyIdentifier {
		return nil, &Error{
			Kind:     AnnotationError,
			Sender:   "elemparser",
			StartIdx: tok.StartIdx,
			EndIdx:   tok.EndIdx,
			Line:     tok.Line,
			Col:      tok.Col,
			Message:  "expected an identifier to begin an annotation",
		}
	}
	p.consumeRaw()
	anno = append(anno, tok)

	next, err := p.peekRaw()
	if err != nil {
		return nil, err
	}
	if next.Type != TokenAngleBracketOpen {
		return anno, nil
	}
	p.consumeRaw()
	anno = append(anno, next)

	depth := 1
	for {
		t, err := p.peekRaw()
		if err != nil {
			return nil, err
		}
		if t.Type == TokenEndOfStream {
			return nil, &Error{
				Kind:     AnnotationError,
				Sender:   "elemparser",
				StartIdx: next.StartIdx,
				EndIdx:   next.EndIdx,
				Line:     next.Line,
				Col:      next.Col,
				Message:  "annotation parameter list not closed, got end of input",
			}
		}
		p.consumeRaw()
		anno = append(anno, t)
		switch t.Type {
		case TokenAngleBracketOpen:
			depth++
		case TokenAngleBracketClose:
			depth--
			if depth == 0 {
				return anno, nil
			}
		}
	}
}

// AnnotationSourceText flattens an annotation token list back into its
// source-string form (e.g. "vec3<f32, 8>"), used as the lookup key for
// annotation hooks and the class-path registry (spec.md §4.3).
func AnnotationSourceText(tokens []Token) string {
	var out []byte
	prevWasIdentLike := false
	for _, t := range tokens {
		if t.Type == TokenIdentifier || t.Type == TokenObjectKeyIdentifier || t.Type == TokenNumber {
			if prevWasIdentLike {
				out = append(out, ' ')
			}
		}
		switch t.Type {
		case TokenExclamationPoint:
			out = append(out, '!')
		case TokenIdentifier, TokenObjectKeyIdentifier, TokenNumber:
			out = append(out, t.Value...)
		case TokenAngleBracketOpen:
			out = append(out, '<')
		case TokenAngleBracketClose:
			out = append(out, '>')
		case TokenComma:
			out = append(out, ',', ' ')
		default:
			if t.Value != "" {
				out = append(out, t.Value...)
			}
		}
		prevWasIdentLike = t.Type == TokenIdentifier || t.Type == TokenObjectKeyIdentifier || t.Type == TokenNumber
	}
	return string(out)
}

// AnnotationBaseName returns the dotted path portion of an annotation
// (everything before an optional "<...>" parameter list), with any
// leading "!" stripped.
func AnnotationBaseName(tokens []Token) string {
	for _, t := range tokens {
		if t.Type == TokenIdentifier || t.Type == TokenObjectKeyIdentifier {
			return t.Value
		}
	}
	return ""
}
