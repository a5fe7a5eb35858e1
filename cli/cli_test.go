package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		description string
		args        []string
		expected    Config
	}{
		{
			description: "single patch with literal",
			args:        []string{"-f", "main.go", "-s", "MARK_START", "-e", "MARK_END", "-r", "MARK_START\nnew\n"},
			expected: Config{
				File: "main.go", Start: "MARK_START", End: "MARK_END",
				Replacement: "MARK_START\nnew\n", HasReplacement: true, LookupDirs: []string{},
			},
		},
		{
			description: "explicit empty replacement",
			args:        []string{"--file", "a.txt", "--start", "S", "--end", "E", "--replacement="},
			expected: Config{
				File: "a.txt", Start: "S", End: "E", HasReplacement: true, LookupDirs: []string{},
			},
		},
		{
			description: "patch set with dry run",
			args:        []string{"-p", "fixes.md", "-n", "-l", "web,api", "--plain"},
			expected: Config{
				Patches: "fixes.md", DryRun: true, Plain: true, LookupDirs: []string{"web", "api"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := ParseArgs(tc.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			if diff := cmp.Diff(tc.expected, *got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		description string
		args        []string
		errContains string
	}{
		{description: "nothing given", args: nil, errContains: "--file is required"},
		{description: "missing start", args: []string{"-f", "a", "-e", "E"}, errContains: "--start"},
		{description: "missing end", args: []string{"-f", "a", "-s", "S"}, errContains: "--end"},
		{description: "two replacement sources", args: []string{"-f", "a", "-s", "S", "-e", "E", "-r", "x", "-R", "y"}, errContains: "mutually exclusive"},
		{description: "patch set mixed with file", args: []string{"-p", "x.md", "-f", "a"}, errContains: "cannot be combined"},
		{description: "positional argument", args: []string{"-p", "x.md", "extra"}, errContains: "unexpected arguments"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ParseArgs(tc.args)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tc.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.errContains)
			}
		})
	}
}
