package main

import (
	"bufio"
	"io"
	"strings"
)

//
// The lexer.  A pull interface over a byte stream: next() returns one
// classified lexeme at a time, or nil at end of input.  Lines are
// 1-based, columns 0-based; the recorded column is the position just
// past the lexeme, which is what the parser's diagnostics want
//

func newLexer(src io.Reader, filename string) *lexer {
	return &lexer{
		src:      bufio.NewReader(src),
		filename: filename,
		line:     1,
	}
}

//
// Classification of the characters the lexer cares about.  Only ASCII
// letters form words; anything else unrecognised is a hard error with
// the character and its numeric code
//

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphanum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '$'
}

func isSimpleSymbol(ch byte) bool {
	return strings.IndexByte("+-*/&=:,()", ch) >= 0
}

func (lx *lexer) next() (*lexeme, error) {
	lx.skipWhitespace()

	ch, ok := lx.peekByte()
	if !ok {
		return nil, nil
	}

	switch {
	case isDigit(ch):
		wholePart := lx.extractWhile(isDigit)

		if ch, ok := lx.peekByte(); ok && ch == '.' {
			lx.getByte()
			decimalPart := lx.extractWhile(isDigit)
			return lx.emit(lexNumber, wholePart+"."+decimalPart), nil
		}

		return lx.emit(lexNumber, wholePart), nil

	case ch == '"':
		lx.getByte()

		value, closed := lx.extractString()
		if !closed {
			return nil, lexerErrorf("%s", EUNTERMINATED)
		}

		return lx.emit(lexString, value), nil

	case isSimpleSymbol(ch):
		lx.getByte()
		return lx.emit(lexSymbol, string(ch)), nil

	case ch == '<' || ch == '>':
		lx.getByte()

		if second, ok := lx.peekByte(); ok && (second == '>' || second == '=') {
			lx.getByte()

			if second == '=' || (ch == '<' && second == '>') {
				return lx.emit(lexSymbol, string(ch)+string(second)), nil
			}

			return nil, lexerErrorf("Invalid operator: %c%c", ch, second)
		}

		return lx.emit(lexSymbol, string(ch)), nil

	case ch == '\n':

		//
		// Fold any run of blank lines (whitespace between the
		// newlines included) into a single end-of-statement lexeme
		//

		for {
			ch, ok := lx.peekByte()
			if !ok || ch != '\n' {
				break
			}

			lx.getByte()
			lx.line++
			lx.column = 0
			lx.skipWhitespace()
		}

		return lx.emit(lexEnd, ""), nil

	case isAlpha(ch):
		return lx.emit(lexWord, lx.extractWhile(isAlphanum)), nil

	default:
		return nil, lexerErrorf("Invalid character at input: '%c' (%d)", ch, ch)
	}
}

//
// Discard input up to, but not including, the next newline
//

func (lx *lexer) ignoreLine() {
	for {
		ch, ok := lx.peekByte()
		if !ok || ch == '\n' {
			return
		}

		lx.getByte()
	}
}

//
// emit builds a lexeme at the current position and canonicalizes it:
// words are lower-cased (keywords and identifiers are case
// insensitive), numbers have their leading zeroes stripped ("007"
// becomes "7", "0.5" becomes ".5", all-zero stays as typed)
//

func (lx *lexer) emit(kind lexemeKind, value string) *lexeme {
	switch kind {
	case lexWord:
		value = strings.ToLower(value)

	case lexNumber:
		if len(value) > 1 && value[0] == '0' {
			if trimmed := strings.TrimLeft(value, "0"); trimmed != "" {
				value = trimmed
			}
		}
	}

	return &lexeme{
		kind:  kind,
		value: value,
		loc:   location{filename: lx.filename, line: lx.line, column: lx.column},
	}
}

func (lx *lexer) skipWhitespace() {
	for {
		ch, ok := lx.peekByte()
		if !ok || (ch != ' ' && ch != '\t') {
			return
		}

		lx.getByte()
	}
}

func (lx *lexer) extractWhile(pred func(byte) bool) string {
	var buf []byte

	for {
		ch, ok := lx.peekByte()
		if !ok || !pred(ch) {
			return string(buf)
		}

		buf = append(buf, lx.getByte())
	}
}

//
// Read up to the closing quote, which is consumed but not returned.
// There are no escape sequences; a string cannot span a newline.  The
// second return value reports whether the closing quote was found
//

func (lx *lexer) extractString() (string, bool) {
	var buf []byte

	for {
		ch, ok := lx.peekByte()
		if !ok || ch == '\n' {
			return string(buf), false
		}

		if ch == '"' {
			lx.getByte()
			return string(buf), true
		}

		buf = append(buf, lx.getByte())
	}
}

func (lx *lexer) peekByte() (byte, bool) {
	b, err := lx.src.Peek(1)
	if err != nil || len(b) == 0 {
		return 0, false
	}

	return b[0], true
}

func (lx *lexer) getByte() byte {
	b, err := lx.src.ReadByte()
	if err != nil {
		return 0
	}

	lx.column++

	return b
}
