package cli

import (
	"os"
	"path/filepath"
	"strings"
)

const maxHistoryLines = 500

// historyFile persists shell input, one line per entry. An empty path
// disables persistence; I/O errors are ignored because losing history must
// never break the shell.
type historyFile string

// load returns the newest maxHistoryLines non-blank lines, oldest first.
func (h historyFile) load() []string {
	if h == "" {
		return nil
	}
	data, err := os.ReadFile(string(h))
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if n := len(lines); n > maxHistoryLines {
		lines = lines[n-maxHistoryLines:]
	}
	return lines
}

func (h historyFile) add(line string) {
	line = strings.TrimSpace(line)
	if h == "" || line == "" {
		return
	}
	path := string(h)
	if os.MkdirAll(filepath.Dir(path), 0o755) != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(line + "\n")
	_ = f.Close()
}
