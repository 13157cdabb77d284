package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Printf(`Usage: %s [-h] [-d] [-t] [-s] [file]

If given a filename, execute the program contained in the file.  Otherwise,
execute standard input terminated by end-of-file.

Options:
	-h, --help	Print this text and exit
	-d, --dump	Dump the parsed program tree before running it
	-t, --trace	Trace each statement to stderr as it executes
	-s, --stats	Report CPU usage after the run
`, os.Args[0])
}
