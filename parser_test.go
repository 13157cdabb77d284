package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, source string) (*block, error) {
	t.Helper()

	return parse(newLexer(strings.NewReader(source), "<test>"))
}

func TestParseSimpleProgram(t *testing.T) {
	program, err := parseSource(t, "LET X = 1\nPRINT X\n")
	require.NoError(t, err)

	require.Len(t, program.statements, 2)
	assert.IsType(t, &letStmt{}, program.statements[0])
	assert.IsType(t, &printStmt{}, program.statements[1])
}

func TestParseEmptyProgram(t *testing.T) {
	program, err := parseSource(t, "")
	require.NoError(t, err)
	assert.Empty(t, program.statements)

	program, err = parseSource(t, "\n\n\n")
	require.NoError(t, err)
	require.Len(t, program.statements, 1)
	assert.IsType(t, &emptyStmt{}, program.statements[0])
}

func TestJumpTableLabels(t *testing.T) {
	program, err := parseSource(t, "10 PRINT 1\nfoo: PRINT 2\nPRINT 3\n")
	require.NoError(t, err)

	pos, ok := labelTreeLookup(program.jumpTable, "10")
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	pos, ok = labelTreeLookup(program.jumpTable, "foo")
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = labelTreeLookup(program.jumpTable, "bar")
	assert.False(t, ok)

	assert.Equal(t, []string{"10", "foo"}, labelTreeLabels(program.jumpTable))
}

func TestDuplicateLabelFirstWins(t *testing.T) {
	program, err := parseSource(t, "10 PRINT 1\n10 PRINT 2\n")
	require.NoError(t, err)

	pos, ok := labelTreeLookup(program.jumpTable, "10")
	require.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestLabeledStatementAfterNewlines(t *testing.T) {
	program, err := parseSource(t, "here:\n\nPRINT 1\n")
	require.NoError(t, err)

	pos, ok := labelTreeLookup(program.jumpTable, "here")
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	assert.IsType(t, &printStmt{}, program.statements[pos])
}

func TestParseIfBlockShape(t *testing.T) {
	program, err := parseSource(t,
		"IF 1 THEN\nPRINT 1\nELSEIF 2 THEN\nPRINT 2\nELSE\nPRINT 3\nEND IF\n")
	require.NoError(t, err)

	require.Len(t, program.statements, 1)
	ifb, ok := program.statements[0].(*ifBlockStmt)
	require.True(t, ok)

	assert.Len(t, ifb.conditions, 2)
	assert.Len(t, ifb.blocks, 3)
}

func TestParseForDefaultStep(t *testing.T) {
	program, err := parseSource(t, "FOR I = 1 TO 3\nNEXT I\n")
	require.NoError(t, err)

	require.Len(t, program.statements, 1)
	loop, ok := program.statements[0].(*forStmt)
	require.True(t, ok)

	assert.Equal(t, "i", loop.varName)

	step, ok := loop.step.(*constantExpr)
	require.True(t, ok)
	assert.Equal(t, intNumber(1), step.value)
}

func TestRemIsDiscarded(t *testing.T) {
	program, err := parseSource(t, "REM a comment ?! with junk\nPRINT 1\n")
	require.NoError(t, err)

	// The comment line contributes an empty statement
	require.Len(t, program.statements, 2)
	assert.IsType(t, &emptyStmt{}, program.statements[0])
	assert.IsType(t, &printStmt{}, program.statements[1])
}

func TestTopLevelEnd(t *testing.T) {
	_, err := parseSource(t, "PRINT 1\nEND\n")
	require.NoError(t, err)

	_, err = parseSource(t, "END\nPRINT 1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected END or end-of-file")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			"unknown keyword",
			"BOGUS 1\n",
			"Unrecognised keyword: bogus",
		},
		{
			"string literal in numeric expression",
			"LET X = \"hi\"\n",
			"String literal in numeric expression",
		},
		{
			"string identifier in numeric expression",
			"LET X = Y$\n",
			"String identifier in numeric expression",
		},
		{
			"numeric value for string variable",
			"LET X$ = 1\n",
			"Expected a string literal, string identifier or opening parenthesis",
		},
		{
			"numeric identifier in string expression",
			"LET X$ = Y\n",
			"Expected a string identifier",
		},
		{
			"next variable mismatch",
			"FOR I = 1 TO 3\nNEXT J\n",
			"Expected i, got j",
		},
		{
			"for without next",
			"FOR I = 1 TO 3\n",
			"Expected NEXT i, got end of input",
		},
		{
			"do without loop",
			"DO WHILE 1\n",
			"Expected LOOP, got end of input",
		},
		{
			"do terminated by wrong keyword",
			"DO WHILE 1\nNEXT\n",
			"Expected LOOP, got next",
		},
		{
			"unterminated if block",
			"IF 1 THEN\nPRINT 1\n",
			"Unexpected end of input, expected ELSE, ELSEIF or END IF",
		},
		{
			"stray terminator at top level",
			"NEXT I\n",
			"Unexpected next, expected END or end-of-file",
		},
		{
			"missing label after goto",
			"GOTO\n",
			"Expected a label",
		},
		{
			"missing exit name",
			"EXIT\n",
			"Expected identifier or keyword, got end of line",
		},
		{
			// The term level takes a single optional operator, so
			// chained multiplicative operators do not parse
			"chained multiplicative operators",
			"PRINT 8/4/2\n",
			"Expected end of line, got operator",
		},
		{
			"if without then",
			"IF 1 PRINT\n",
			"Expected then, got print",
		},
		{
			"string for loop variable",
			"FOR I$ = 1 TO 3\nNEXT I$\n",
			"Expected a numeric identifier",
		},
		{
			"string input variable",
			"INPUT X$\n",
			"Expected a numeric identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var synErr *syntaxError
			assert.ErrorAs(t, err, &synErr)
		})
	}
}

func TestSyntaxErrorCarriesLocation(t *testing.T) {
	_, err := parseSource(t, "PRINT 1\nLET X = )\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<test>, line 2")
}

func TestParserConsumesNothingPastEOF(t *testing.T) {
	lx := newLexer(strings.NewReader("PRINT 1\n"), "<test>")

	_, err := parse(lx)
	require.NoError(t, err)

	l, err := lx.next()
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestFinalLineWithoutNewline(t *testing.T) {
	program, err := parseSource(t, "PRINT 1")
	require.NoError(t, err)
	require.Len(t, program.statements, 1)
}
