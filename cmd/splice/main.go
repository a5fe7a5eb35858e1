package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sokinpui/splice/cli"
	"github.com/sokinpui/splice/internal/tui"
	"github.com/sokinpui/splice/internal/ui"
	"github.com/sokinpui/splice/splice"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	app, err := splice.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Diffs go to stdout, so dry runs never start the TUI.
	if cfg.Plain || cfg.DryRun || !isTerminal(os.Stdout) {
		os.Exit(runPlain(app))
	}
	os.Exit(runTUI(app))
}

func runPlain(app *splice.App) int {
	summary, err := app.Execute()
	ui.PrintSummary(summary)
	return report(err)
}

func runTUI(app *splice.App) int {
	// Log lines would tear the spinner, so hold them until the program ends.
	var logs bytes.Buffer
	prev := ui.SetOutput(&logs)

	model := tui.New(app)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	final, err := p.Run()

	// The app goroutine may still log after an interrupt; from here on it
	// writes straight to the previous writer.
	ui.SetOutput(prev)
	os.Stderr.Write(logs.Bytes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		printStack(m.Err())
		return 1
	}
	return 0
}

func report(err error) int {
	if err == nil {
		return 0
	}
	ui.Error("Error: %v", err)
	printStack(err)
	return 1
}

func printStack(err error) {
	var detailed *splice.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
