package main

import (
	"errors"
	"fmt"
	"github.com/goforj/godump"
	"io"
	"os"
	"strings"
)

//
// Tricky: init is called under the hood by the GO runtime when
// we fire up, so there are no visible calls to it!
//

func init() {
	initParser()
}

func main() {
	var filenameArg string

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-h", "--help":
			printUsage()
			return

		case "-d", "--dump":
			g.dumpTree = true

		case "-t", "--trace":
			g.traceExec = true

		case "-s", "--stats":
			g.printStats = true

		case "-":
			// explicit standard input, same as no argument

		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option %s\n", arg)
				os.Exit(1)
			}

			if filenameArg != "" {
				fmt.Fprintln(os.Stderr, "Too many arguments")
				os.Exit(1)
			}

			filenameArg = arg
		}
	}

	input := io.Reader(os.Stdin)
	g.programFilename = stdinFilename

	if filenameArg != "" {
		f, err := os.Open(filenameArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Can't open %s for reading\n", filenameArg)
			os.Exit(1)
		}

		defer f.Close()

		input = f
		g.programFilename = filenameArg
		g.fromFile = true
	}

	if g.printStats {
		initClock()
	}

	if err := runProgram(input, g.programFilename); err != nil {
		reportError(err)
	}

	if g.printStats {
		printCpuUsage()
	}
}

//
// The pipeline: lex and parse the source into the root block, then
// walk it.  Lexer errors surface through parse, since the parser is
// what pulls the lexemes
//

func runProgram(src io.Reader, filename string) error {
	program, err := parse(newLexer(src, filename))
	if err != nil {
		return err
	}

	if g.dumpTree {
		godump.Dump(program)
	}

	var options []interpOption

	if g.fromFile && stdinIsTerminal() {
		editor := setupLiner()
		defer closeLiner(editor)

		options = append(options, withLineEditor(editor))
	}

	return newInterpreter(program, options...).run()
}

//
// All errors are fatal to the program being interpreted: print the
// category prefix and the message.  The process still exits 0 here;
// only a file-open failure is a non-zero exit
//

func reportError(err error) {
	var lexErr *lexerError
	var synErr *syntaxError
	var runErr *runtimeError

	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintf(os.Stderr, "Lexer error: %s\n", lexErr.msg)
	case errors.As(err, &synErr):
		fmt.Fprintf(os.Stderr, "Syntax error: %s\n", synErr.msg)
	case errors.As(err, &runErr):
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", runErr.msg)
	default:
		fmt.Fprintf(os.Stderr, "Internal error: %s\n", err)
	}
}
