package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/sokinpui/splice/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr
)

// SetOutput redirects all messages to w and returns the previous writer.
// Once it returns, nothing is written to the previous writer any more.
func SetOutput(w io.Writer) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	prev := output
	output = w
	return prev
}

func write(c *color.Color, format string, a ...interface{}) {
	outputMu.Lock()
	defer outputMu.Unlock()
	c.Fprintf(output, format, a...)
}

func Header(format string, a ...interface{}) {
	write(HeaderColor, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	write(InfoColor, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	write(SuccessColor, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	write(WarningColor, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	write(ErrorColor, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	write(PathColor, "  "+format+"\n", a...)
}

// --- Summaries ---

func PrintSummary(summary model.Summary) {
	Header("\n--- Patch Summary ---")

	if summary.Message != "" {
		Info("%s", summary.Message)
	}

	if len(summary.Modified) == 0 && len(summary.Unchanged) == 0 && len(summary.Failed) == 0 {
		Info("No files were patched.")
		return
	}

	if len(summary.Modified) > 0 {
		Success("Patched %d file(s):", len(summary.Modified))
		printList(summary.Modified)
	}
	if len(summary.Unchanged) > 0 {
		Info("Already up to date, %d file(s):", len(summary.Unchanged))
		printList(summary.Unchanged)
	}
	if len(summary.Failed) > 0 {
		Error("Failed to patch %d file(s):", len(summary.Failed))
		printList(summary.Failed)
	}
}

func printList(paths []string) {
	outputMu.Lock()
	defer outputMu.Unlock()
	for _, p := range paths {
		fmt.Fprintf(output, "  - %s\n", p)
	}
}
