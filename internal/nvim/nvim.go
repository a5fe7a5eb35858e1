package nvim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

// ErrNoInstance is returned when no running Neovim advertises a socket.
var ErrNoInstance = errors.New("no running Neovim instance found ($NVIM and $NVIM_LISTEN_ADDRESS are unset)")

// reloadLua re-reads every loaded buffer named exactly like the given path.
// It returns true when a buffer was reloaded.
const reloadLua = `
local path = ...
local found = false
for _, bufnr in ipairs(vim.api.nvim_list_bufs()) do
  if vim.api.nvim_buf_is_loaded(bufnr) and vim.api.nvim_buf_get_name(bufnr) == path then
    vim.api.nvim_buf_call(bufnr, function() vim.cmd('silent! edit!') end)
    found = true
  end
end
return found
`

// Manager handles the connection to a running Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// Address returns the socket of the surrounding Neovim, if any.
func Address() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

// New connects to the Neovim instance listening on addr. An empty addr falls
// back to Address.
func New(addr string) (*Manager, error) {
	if addr == "" {
		addr = Address()
	}
	if addr == "" {
		return nil, ErrNoInstance
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// ReloadBuffers makes Neovim re-read the given files in every loaded buffer
// showing them, discarding the stale in-memory copy. Files without a buffer
// are skipped.
func (m *Manager) ReloadBuffers(paths []string) (reloaded []string, err error) {
	if len(paths) == 0 {
		return nil, nil
	}

	absPaths := make([]string, len(paths))
	results := make([]bool, len(paths))
	b := m.nvim.NewBatch()
	for i, p := range paths {
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			abs = p
		}
		absPaths[i] = abs
		b.ExecLua(reloadLua, &results[i], abs)
	}
	if err := b.Execute(); err != nil {
		return nil, fmt.Errorf("failed to reload buffers: %w", err)
	}

	for i, ok := range results {
		if ok {
			reloaded = append(reloaded, absPaths[i])
		}
	}
	return reloaded, nil
}
