package main

import (
	"fmt"
	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
	"os"
	"strconv"
	"strings"
	"time"
)

//
// INPUT gets line editing only when the program came from a file and
// both standard streams are a real terminal; otherwise standard input
// belongs to the program text or a pipe
//

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

func setupLiner() *liner.State {
	l := liner.NewLiner()

	l.SetMultiLineMode(false)

	return l
}

// Close restores the terminal to its previous state
func closeLiner(editor *liner.State) {
	if editor != nil {
		editor.Close()
	}
}

//
// Execution tracing (-t).  One line per executed statement, kept on
// stderr so it never mixes with program output
//

func executeTrace(stmt statement) {
	fmt.Fprintf(os.Stderr, "trace: %s\n", stmtName(stmt))
}

func stmtName(stmt statement) string {
	switch stmt.(type) {
	case *ifGotoStmt:
		return "if-goto"
	case *ifBlockStmt:
		return "if"
	case *doStmt:
		return "do"
	case *forStmt:
		return "for"
	case *printStmt:
		return "print"
	case *inputStmt:
		return "input"
	case *letStmt:
		return "let"
	case *gotoStmt:
		return "goto"
	case *stopStmt:
		return "stop"
	case *exitStmt:
		return "exit"
	case *emptyStmt:
		return "empty"
	}

	return "unknown"
}

//
// Runtime statistics for the executed program (-s)
//

var s struct {
	elapsed time.Time
	utime   int64
	stime   int64
}

func initClock() {
	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo()
}

func printCpuUsage() {
	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo()

	fmt.Fprintf(os.Stderr, "CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))
}

func formatCPUTime(t int64) string {
	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system time come from /proc/self/stat, scaled by the
// clock-tick rate.  Best effort: on any failure report zeros rather
// than disturbing the run
//

func getCPUInfo() (int64, int64) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck == 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}
