package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/command"
)

func TestSplitShellArgs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "Design 0 40", []string{"Design", "0", "40"}},
		{"extra whitespace", "  Design \t 0  ", []string{"Design", "0"}},
		{"double quotes", `"Website Design" 0 40`, []string{"Website Design", "0", "40"}},
		{"single quotes are literal", `'a \"b' c`, []string{`a \"b`, "c"}},
		{"escaped quote in double quotes", `"say \"hi\""`, []string{`say "hi"`}},
		{"escaped space", `Website\ Design 1`, []string{"Website Design", "1"}},
		{"empty quoted token", `"" x`, []string{"", "x"}},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitShellArgs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitShellArgs_Errors(t *testing.T) {
	_, err := splitShellArgs(`"open`)
	assert.ErrorContains(t, err, "unterminated quoted string")

	_, err = splitShellArgs(`trailing\`)
	assert.ErrorContains(t, err, "unterminated escape sequence")
}

func TestCompletions(t *testing.T) {
	assert.Equal(t, []string{"/newScope"}, completions("/n"))
	assert.Equal(t, []string{"hours", "history", "help"}, completions("H"))
	assert.Len(t, completions(""), len(shellWords)+len(command.Commands()))
	assert.Empty(t, completions("zzz"))
}
