package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/splice/model"
)

const fence = "```"

func block(lang, body string) string {
	return fence + lang + "\n" + body + fence + "\n"
}

func TestParsePatchSet(t *testing.T) {
	doc := strings.Join([]string{
		"# Room detail fixes",
		"",
		"Rewrite participants in `src/views/RoomDetailView.vue`:",
		"",
		block("start", "const participants = computed(() => {\n"),
		block("end", "const participantCount\n"),
		block("replace", "const participants = computed(() => [])\n\n"),
		"An unrelated snippet:",
		"",
		block("go", "fmt.Println(\"ignored\")\n"),
		"Then the deep link builder:",
		"",
		block("start", "function buildUberDeepLink\n"),
		block("end", "function resolveAuthToken\n"),
		block("replace", "function buildUberDeepLink() {}\n\n"),
		"`README.md`",
		"",
		block("start", "<!-- BEGIN -->\n"),
		block("end", "<!-- END -->\n"),
		block("replace", ""),
	}, "\n")

	got, err := ParsePatchSet([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePatchSet failed: %v", err)
	}

	expected := []model.FilePatches{
		{
			Path: "src/views/RoomDetailView.vue",
			Patches: []model.Patch{
				{Start: "const participants = computed(() => {", End: "const participantCount", Replacement: "const participants = computed(() => [])\n\n"},
				{Start: "function buildUberDeepLink", End: "function resolveAuthToken", Replacement: "function buildUberDeepLink() {}\n\n"},
			},
		},
		{
			Path: "README.md",
			Patches: []model.Patch{
				{Start: "<!-- BEGIN -->", End: "<!-- END -->", Replacement: ""},
			},
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("patch set mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePatchSetMultilineMarker(t *testing.T) {
	doc := "`a.txt`\n\n" +
		block("start", "one\ntwo\n") + "\n" +
		block("end", "three\n") + "\n" +
		block("replace", "one\ntwo\nnew\n")

	got, err := ParsePatchSet([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePatchSet failed: %v", err)
	}
	if len(got) != 1 || len(got[0].Patches) != 1 {
		t.Fatalf("expected one patch, got %+v", got)
	}
	if got[0].Patches[0].Start != "one\ntwo" {
		t.Errorf("unexpected start marker %q", got[0].Patches[0].Start)
	}
}

func TestParsePatchSetErrors(t *testing.T) {
	tests := []struct {
		description string
		doc         string
		errContains string
	}{
		{
			description: "missing path",
			doc:         block("start", "a\n") + "\n" + block("end", "b\n") + "\n" + block("replace", "c\n"),
			errContains: "no target file",
		},
		{
			description: "missing replace block",
			doc:         "`a.txt`\n\n" + block("start", "a\n") + "\n" + block("end", "b\n"),
			errContains: "followed by 'end' and 'replace'",
		},
		{
			description: "stray end block",
			doc:         "`a.txt`\n\n" + block("end", "b\n"),
			errContains: "without a preceding 'start'",
		},
		{
			description: "empty marker",
			doc:         "`a.txt`\n\n" + block("start", "") + "\n" + block("end", "b\n") + "\n" + block("replace", "c\n"),
			errContains: "must not be empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ParsePatchSet([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tc.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.errContains)
			}
		})
	}
}

func TestExtractPathFromHint(t *testing.T) {
	tests := []struct {
		hint     string
		expected string
	}{
		{hint: "`main.go`", expected: "main.go"},
		{hint: "Run `go run main.go` on `cmd/app/main.go`", expected: "cmd/app/main.go"},
		{hint: "no path here", expected: ""},
	}
	for _, tc := range tests {
		if got := extractPathFromHint(tc.hint); got != tc.expected {
			t.Errorf("extractPathFromHint(%q) = %q, want %q", tc.hint, got, tc.expected)
		}
	}
}
