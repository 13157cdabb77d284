package main

import (
	"bufio"
	"fmt"
	"github.com/danswartzendruber/liner"
	"github.com/emirpasic/gods/stacks/arraystack"
	"io"
	"os"
	"strings"
)

//
// The execution engine.  A stack of activation frames walks the
// statement trees: the top frame is the innermost scope.  Statements
// may push frames (block entry), pop them (EXIT, jump), or clear the
// stack (STOP); when a frame runs off the end of its block it is
// popped, and if a DO or FOR owned it, that statement's iterate hook
// decides whether to re-enter the body
//

func newInterpreter(program *block, options ...interpOption) *interpreter {
	ip := &interpreter{
		frames: arraystack.New(),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	for _, option := range options {
		option(ip)
	}

	ip.enterBlock(program, nil)

	return ip
}

func withInput(r io.Reader) interpOption {
	return func(ip *interpreter) {
		ip.in = bufio.NewReader(r)
	}
}

func withOutput(w io.Writer) interpOption {
	return func(ip *interpreter) {
		ip.out = w
	}
}

// Attach a line editor for INPUT statements; used when the program
// came from a file and the standard streams are a terminal
func withLineEditor(editor *liner.State) interpOption {
	return func(ip *interpreter) {
		ip.editor = editor
	}
}

func (ip *interpreter) run() error {
	ip.stopped = false

	for ip.frames.Size() > 0 && !ip.stopped {
		f := ip.topFrame()

		if f.cursor >= len(f.block.statements) {

			//
			// The frame ran off the end of its block.  Pop it,
			// and let the owning DO or FOR decide about the next
			// iteration
			//

			owner := f.stmt

			ip.exitBlock()

			if owner != nil {
				if err := owner.iterate(ip); err != nil {
					return err
				}
			}

			continue
		}

		stmt := f.block.statements[f.cursor]
		f.cursor++

		if g.traceExec {
			executeTrace(stmt)
		}

		if err := stmt.execute(ip); err != nil {
			return err
		}
	}

	return nil
}

//
// Transfer control to a label.  Frames are searched innermost first;
// a frame that does not bind the label is popped, so jumping out of a
// loop or IF body abandons those scopes without running their iterate
// hooks
//

func (ip *interpreter) jump(label string) error {
	for ip.frames.Size() > 0 {
		f := ip.topFrame()

		if pos, ok := labelTreeLookup(f.block.jumpTable, label); ok {
			f.cursor = pos
			return nil
		}

		ip.exitBlock()
	}

	return runtimeErrorf("Jump to undefined label %s", label)
}

func (ip *interpreter) enterBlock(b *block, owner blockStatement) {
	ip.frames.Push(&frame{
		stmt:        owner,
		block:       b,
		numericVars: make(map[string]number),
		stringVars:  make(map[string]string),
	})
}

func (ip *interpreter) exitBlock() {
	ip.frames.Pop()
}

//
// Pop frames until one owned by a DO or FOR with the given name has
// been popped.  Unnamed frames (IF bodies, the root) on the way out
// are discarded silently
//

func (ip *interpreter) exitBlockNamed(name string) error {
	for ip.frames.Size() > 0 {
		f := ip.topFrame()

		poppedName := ""
		if f.stmt != nil {
			poppedName = f.stmt.name()
		}

		ip.frames.Pop()

		if poppedName == name {
			return nil
		}
	}

	return runtimeErrorf("Cannot EXIT %s: No such block", name)
}

func (ip *interpreter) stop() {
	ip.frames.Clear()
	ip.stopped = true
}

func (ip *interpreter) topFrame() *frame {
	v, _ := ip.frames.Peek()

	return v.(*frame)
}

//
// The variable store.  Values() of the frame stack yields frames in
// LIFO order, so a plain scan is the innermost-first resolution the
// language wants.  Assignment updates the innermost frame that
// already binds the name, and falls back to creating the binding in
// the current top frame
//

func (ip *interpreter) setVarNumeric(name string, value number) {
	for _, v := range ip.frames.Values() {
		f := v.(*frame)

		if _, ok := f.numericVars[name]; ok {
			f.numericVars[name] = value
			return
		}
	}

	ip.topFrame().numericVars[name] = value
}

func (ip *interpreter) setVarString(name string, value string) {
	for _, v := range ip.frames.Values() {
		f := v.(*frame)

		if _, ok := f.stringVars[name]; ok {
			f.stringVars[name] = value
			return
		}
	}

	ip.topFrame().stringVars[name] = value
}

func (ip *interpreter) getVarNumeric(name string) (number, error) {
	for _, v := range ip.frames.Values() {
		f := v.(*frame)

		if value, ok := f.numericVars[name]; ok {
			return value, nil
		}
	}

	return number{}, runtimeErrorf("Variable %s undefined", name)
}

func (ip *interpreter) getVarString(name string) (string, error) {
	for _, v := range ip.frames.Values() {
		f := v.(*frame)

		if value, ok := f.stringVars[name]; ok {
			return value, nil
		}
	}

	return "", runtimeErrorf("Variable %s undefined", name)
}

//
// Numeric expression evaluation
//

func (e *constantExpr) evalNumber(ip *interpreter) (number, error) {
	return e.value, nil
}

func (e *variableExpr) evalNumber(ip *interpreter) (number, error) {
	return ip.getVarNumeric(e.name)
}

func (e *arithExpr) evalNumber(ip *interpreter) (number, error) {
	left, err := e.left.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	right, err := e.right.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	switch e.op {
	case opPlus:
		return left.add(right), nil
	case opMinus:
		return left.sub(right), nil
	case opTimes:
		return left.mul(right), nil
	case opDivides:
		return left.div(right)
	case opModulo:
		return left.mod(right)
	}

	return number{}, fmt.Errorf("unknown arithmetic operator %d", e.op)
}

func (e *relationalExpr) evalNumber(ip *interpreter) (number, error) {
	left, err := e.left.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	right, err := e.right.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	switch e.op {
	case opEquals:
		return boolNumber(left.equals(right)), nil
	case opNotEqual:
		return boolNumber(!left.equals(right)), nil
	case opLess:
		return boolNumber(left.less(right)), nil
	case opLessEq:
		return boolNumber(left.lessEq(right)), nil
	case opGreater:
		return boolNumber(left.greater(right)), nil
	case opGreaterEq:
		return boolNumber(left.greaterEq(right)), nil
	}

	return number{}, fmt.Errorf("unknown relational operator %d", e.op)
}

//
// AND and OR short-circuit: the right operand is only evaluated when
// the left one hasn't already decided the answer
//

func (e *booleanExpr) evalNumber(ip *interpreter) (number, error) {
	left, err := e.left.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	switch e.op {
	case opNot:
		return boolNumber(!left.isTrue()), nil

	case opAnd:
		if !left.isTrue() {
			return boolNumber(false), nil
		}

	case opOr:
		if left.isTrue() {
			return boolNumber(true), nil
		}

	default:
		return number{}, fmt.Errorf("unknown boolean operator %d", e.op)
	}

	right, err := e.right.evalNumber(ip)
	if err != nil {
		return number{}, err
	}

	return boolNumber(right.isTrue()), nil
}

//
// String expression evaluation
//

func (e *stringLiteralExpr) evalString(ip *interpreter) (string, error) {
	return e.value, nil
}

func (e *stringVariableExpr) evalString(ip *interpreter) (string, error) {
	return ip.getVarString(e.name)
}

func (e *stringConcatExpr) evalString(ip *interpreter) (string, error) {
	left, err := e.left.evalString(ip)
	if err != nil {
		return "", err
	}

	right, err := e.right.evalString(ip)
	if err != nil {
		return "", err
	}

	return left + right, nil
}

//
// Printable representations.  A numeric expression prints as its
// value's decimal form, a string expression as its value
//

func numberRepresentation(e numericExpr, ip *interpreter) (string, error) {
	v, err := e.evalNumber(ip)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

func (e *constantExpr) representation(ip *interpreter) (string, error) {
	return numberRepresentation(e, ip)
}

func (e *variableExpr) representation(ip *interpreter) (string, error) {
	return numberRepresentation(e, ip)
}

func (e *arithExpr) representation(ip *interpreter) (string, error) {
	return numberRepresentation(e, ip)
}

func (e *relationalExpr) representation(ip *interpreter) (string, error) {
	return numberRepresentation(e, ip)
}

func (e *booleanExpr) representation(ip *interpreter) (string, error) {
	return numberRepresentation(e, ip)
}

func (e *stringLiteralExpr) representation(ip *interpreter) (string, error) {
	return e.evalString(ip)
}

func (e *stringVariableExpr) representation(ip *interpreter) (string, error) {
	return e.evalString(ip)
}

func (e *stringConcatExpr) representation(ip *interpreter) (string, error) {
	return e.evalString(ip)
}

//
// Statement execution
//

func (s *ifGotoStmt) execute(ip *interpreter) error {
	condition, err := s.condition.evalNumber(ip)
	if err != nil {
		return err
	}

	if condition.isTrue() {
		return ip.jump(s.thenLabel)
	}

	if s.elseLabel != "" {
		return ip.jump(s.elseLabel)
	}

	return nil
}

func (s *ifBlockStmt) execute(ip *interpreter) error {
	for i, condition := range s.conditions {
		v, err := condition.evalNumber(ip)
		if err != nil {
			return err
		}

		if v.isTrue() {
			ip.enterBlock(s.blocks[i], nil)
			return nil
		}
	}

	// A trailing extra block is the ELSE clause
	if len(s.blocks) == len(s.conditions)+1 {
		ip.enterBlock(s.blocks[len(s.blocks)-1], nil)
	}

	return nil
}

func (s *doStmt) name() string {
	return "do"
}

func (s *doStmt) execute(ip *interpreter) error {
	return s.iterate(ip)
}

func (s *doStmt) iterate(ip *interpreter) error {
	condition, err := s.condition.evalNumber(ip)
	if err != nil {
		return err
	}

	if condition.isTrue() {
		ip.enterBlock(s.body, s)
	}

	return nil
}

func (s *forStmt) name() string {
	return "for"
}

//
// FOR freezes its step and final value at loop entry; only the loop
// variable is re-read between iterations
//

func (s *forStmt) execute(ip *interpreter) error {
	initial, err := s.initial.evalNumber(ip)
	if err != nil {
		return err
	}

	ip.setVarNumeric(s.varName, initial)

	if s.stepVal, err = s.step.evalNumber(ip); err != nil {
		return err
	}

	if s.finalVal, err = s.final.evalNumber(ip); err != nil {
		return err
	}

	v, err := ip.getVarNumeric(s.varName)
	if err != nil {
		return err
	}

	if s.conditionHolds(v) {
		ip.enterBlock(s.body, s)
	}

	return nil
}

func (s *forStmt) iterate(ip *interpreter) error {
	v, err := ip.getVarNumeric(s.varName)
	if err != nil {
		return err
	}

	v = v.add(s.stepVal)
	ip.setVarNumeric(s.varName, v)

	if s.conditionHolds(v) {
		ip.enterBlock(s.body, s)
	}

	return nil
}

func (s *forStmt) conditionHolds(v number) bool {
	zero := intNumber(0)

	return (s.stepVal.greater(zero) && v.lessEq(s.finalVal)) ||
		(s.stepVal.less(zero) && v.greaterEq(s.finalVal))
}

//
// PRINT writes each expression's representation with no separator in
// between, then a newline
//

func (s *printStmt) execute(ip *interpreter) error {
	for _, e := range s.expressions {
		repr, err := e.representation(ip)
		if err != nil {
			return err
		}

		fmt.Fprint(ip.out, repr)
	}

	fmt.Fprintln(ip.out)

	return nil
}

func (s *inputStmt) execute(ip *interpreter) error {
	line, err := ip.readInputLine()
	if err != nil {
		return err
	}

	var value int64

	if _, err := fmt.Sscanf(line, "%d", &value); err != nil {
		return &runtimeError{msg: EINPUTNOTINTEGER}
	}

	ip.setVarNumeric(s.varName, intNumber(value))

	return nil
}

//
// Read one line for INPUT, prompting with "? ".  With a line editor
// attached, end-of-file yields an empty line (which then fails the
// integer parse) and a prompt abort is an interrupt
//

func (ip *interpreter) readInputLine() (string, error) {
	if ip.editor != nil {
		line, err := ip.editor.Prompt(inputPrompt)

		switch err {
		case nil, io.EOF:
			return line, nil
		case liner.ErrPromptAborted:
			return "", &runtimeError{msg: EINTERRUPTED}
		default:
			return "", err
		}
	}

	fmt.Fprint(ip.out, inputPrompt)

	line, err := ip.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return strings.TrimSuffix(line, "\n"), nil
}

func (s *letStmt) execute(ip *interpreter) error {
	if s.numValue != nil {
		value, err := s.numValue.evalNumber(ip)
		if err != nil {
			return err
		}

		ip.setVarNumeric(s.varName, value)

		return nil
	}

	value, err := s.strValue.evalString(ip)
	if err != nil {
		return err
	}

	ip.setVarString(s.varName, value)

	return nil
}

func (s *gotoStmt) execute(ip *interpreter) error {
	return ip.jump(s.label)
}

func (s *stopStmt) execute(ip *interpreter) error {
	ip.stop()

	return nil
}

func (s *exitStmt) execute(ip *interpreter) error {
	return ip.exitBlockNamed(s.what)
}

func (s *emptyStmt) execute(ip *interpreter) error {
	return nil
}
