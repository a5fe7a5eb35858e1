package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	File            string
	Start           string
	End             string
	Replacement     string
	HasReplacement  bool
	ReplacementFile string
	Patches         string
	LookupDirs      []string
	DryRun          bool
	Reload          bool
	Plain           bool
}

// PatchSetMode reports whether patches come from a markdown patch set.
func (c *Config) PatchSetMode() bool {
	return c.Patches != ""
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args (without the program name) into a Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("splice", pflag.ContinueOnError)

	// Single patch
	flags.StringVarP(&cfg.File, "file", "f", "", "Target file to patch.")
	flags.StringVarP(&cfg.Start, "start", "s", "", "Start marker. The span replaced begins where this text begins.")
	flags.StringVarP(&cfg.End, "end", "e", "", "End marker. The span replaced ends where this text begins (searched from the start marker on).")
	flags.StringVarP(&cfg.Replacement, "replacement", "r", "", "Replacement text. It replaces the start marker too, so repeat it if it should stay.")
	flags.StringVarP(&cfg.ReplacementFile, "replacement-file", "R", "", "Read the replacement text from a file ('-' for stdin).")

	// Patch set
	flags.StringVarP(&cfg.Patches, "patches", "p", "", "Markdown patch set with start/end/replace code blocks ('-' for stdin).")

	flags.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to resolve relative target paths against (default: current directory).")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print a unified diff of the changes instead of writing files.")
	flags.BoolVar(&cfg.Reload, "reload", false, "Reload patched files in the running Neovim ($NVIM).")
	flags.BoolVar(&cfg.Plain, "plain", false, "Disable the spinner and print a plain summary.")

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: splice -f FILE -s START -e END [-r TEXT | -R FILE]")
		fmt.Fprintln(os.Stderr, "       splice -p PATCHSET.md")
		fmt.Fprintln(os.Stderr, "\nReplace the text between two markers in a file.")
		fmt.Fprintln(os.Stderr, "Without -r or -R the replacement is read from stdin (pipe) or the clipboard.")
		fmt.Fprintln(os.Stderr, "\nExample: pbpaste | splice -f main.go -s 'func old(' -e 'func next('")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fmt.Fprint(os.Stderr, flags.FlagUsages())
	}
	// Errors are returned to the caller, which reports them.
	flags.SetOutput(io.Discard)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	cfg.HasReplacement = flags.Changed("replacement")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HasReplacement && c.ReplacementFile != "" {
		return errors.New("error: --replacement and --replacement-file are mutually exclusive")
	}

	if c.PatchSetMode() {
		if c.File != "" || c.Start != "" || c.End != "" || c.HasReplacement || c.ReplacementFile != "" {
			return errors.New("error: --patches cannot be combined with single patch flags")
		}
		return nil
	}

	switch {
	case c.File == "":
		return errors.New("error: --file is required (or use --patches)")
	case c.Start == "":
		return errors.New("error: --start must be a non-empty marker")
	case c.End == "":
		return errors.New("error: --end must be a non-empty marker")
	}
	return nil
}
