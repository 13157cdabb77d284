package main

import "fmt"

//
// Manifest constants for the fixed diagnostic messages.  The wording
// is part of the external contract (tests grep for these), so keep
// them in one place
//

const (
	EDIVISIONBYZERO  = "Division by zero"
	EMODULONOTWHOLE  = "Modulo operation is only defined on whole number types."
	EINPUTNOTINTEGER = "User input error: expected an integer"
	EINTERRUPTED     = "Interrupted"
	EUNTERMINATED    = "Unterminated string"
)

//
// Three error categories, each fatal to the running program.  The
// top-level handler in basic.go classifies with errors.As and prints
// the corresponding prefix; anything else is an internal error
//

type lexerError struct {
	msg string
}

func (e *lexerError) Error() string {
	return e.msg
}

func lexerErrorf(f string, args ...any) error {
	return &lexerError{msg: fmt.Sprintf(f, args...)}
}

type syntaxError struct {
	msg string
}

func (e *syntaxError) Error() string {
	return e.msg
}

//
// Syntax errors carry a physical source location when one is
// available at the offending lexeme
//

func syntaxErrorAt(msg string, where *lexeme) error {
	if where != nil {
		msg = fmt.Sprintf("%s, line %d, column %d: %s",
			where.loc.filename, where.loc.line, where.loc.column, msg)
	}

	return &syntaxError{msg: msg}
}

type runtimeError struct {
	msg string
}

func (e *runtimeError) Error() string {
	return e.msg
}

func runtimeErrorf(f string, args ...any) error {
	return &runtimeError{msg: fmt.Sprintf(f, args...)}
}
