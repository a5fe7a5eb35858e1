package nvim

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neovim/go-client/nvim"
)

func TestNewWithoutInstance(t *testing.T) {
	t.Setenv("NVIM", "")
	t.Setenv("NVIM_LISTEN_ADDRESS", "")

	if _, err := New(""); !errors.Is(err, ErrNoInstance) {
		t.Errorf("expected ErrNoInstance, got %v", err)
	}
}

func TestAddress(t *testing.T) {
	t.Setenv("NVIM", "")
	t.Setenv("NVIM_LISTEN_ADDRESS", "/tmp/legacy.sock")
	if got := Address(); got != "/tmp/legacy.sock" {
		t.Errorf("Address() = %q, want legacy address", got)
	}

	t.Setenv("NVIM", "/tmp/nvim.sock")
	if got := Address(); got != "/tmp/nvim.sock" {
		t.Errorf("Address() = %q, want $NVIM to take precedence", got)
	}
}

func TestReloadBuffers(t *testing.T) {
	if _, err := exec.LookPath("nvim"); err != nil {
		t.Skip("nvim not found in PATH")
	}
	v, err := nvim.NewChildProcess(nvim.ChildProcessArgs("-u", "NONE", "-i", "NONE", "-n", "--embed", "--headless"))
	if err != nil {
		t.Fatalf("Failed to start nvim: %v", err)
	}
	m := &Manager{nvim: v}
	defer m.Close()

	dir := t.TempDir()
	opened := filepath.Join(dir, "opened.txt")
	notOpened := filepath.Join(dir, "not-opened.txt")
	for _, p := range []string{opened, notOpened} {
		if err := os.WriteFile(p, []byte("old\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}

	if err := v.Command("edit " + opened); err != nil {
		t.Fatalf("Failed to open buffer: %v", err)
	}
	if err := os.WriteFile(opened, []byte("new\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite %s: %v", opened, err)
	}

	reloaded, err := m.ReloadBuffers([]string{opened, notOpened})
	if err != nil {
		t.Fatalf("ReloadBuffers failed: %v", err)
	}
	if diff := cmp.Diff([]string{opened}, reloaded); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}

	buf, err := v.CurrentBuffer()
	if err != nil {
		t.Fatalf("Failed to get buffer: %v", err)
	}
	lines, err := v.BufferLines(buf, 0, -1, true)
	if err != nil {
		t.Fatalf("Failed to read buffer lines: %v", err)
	}
	if len(lines) != 1 || string(lines[0]) != "new" {
		t.Errorf("buffer not reloaded, lines: %q", lines)
	}
}

func TestReloadBuffersEmpty(t *testing.T) {
	m := &Manager{}
	reloaded, err := m.ReloadBuffers(nil)
	if err != nil || reloaded != nil {
		t.Errorf("ReloadBuffers(nil) = %v, %v; want nil, nil", reloaded, err)
	}
}
