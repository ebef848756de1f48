package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRateCardFile(t *testing.T) {
	path := writeFile(t, "rates.yaml", `
rates:
  - name: Project Manager
    rate: 100
  - name: " Tech - Specialist "
    rate: 150
`)
	file, err := LoadRateCardFile(path)
	require.NoError(t, err)
	assert.Empty(t, ValidateRateCard(file))

	assert.Equal(t, []domain.RateCardEntry{
		{Name: "Project Manager", Rate: 100},
		{Name: "Tech - Specialist", Rate: 150},
	}, Convert(file))
}

func TestLoadRateCardFile_JSON(t *testing.T) {
	path := writeFile(t, "rates.json", `{"rates": [{"name": "Designer", "rate": 80}]}`)
	file, err := LoadRateCardFile(path)
	require.NoError(t, err)
	assert.Len(t, file.Rates, 1)
}

func TestParseRateCard_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseRateCard([]byte("rate:\n  - name: A\n    rate: 1\n"))
	assert.Error(t, err)
}

func TestLoadRateCardFile_Missing(t *testing.T) {
	_, err := LoadRateCardFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRateCard(t *testing.T) {
	tests := []struct {
		name string
		file RateCardFile
		want []string
	}{
		{"empty", RateCardFile{}, []string{"rates: at least one entry is required"}},
		{"blank name", RateCardFile{Rates: []RateImport{{Name: " ", Rate: 5}}}, []string{"rates[0].name is required"}},
		{"bad rate", RateCardFile{Rates: []RateImport{{Name: "A", Rate: 0}}}, []string{"rates[0].rate must be a positive integer, got 0"}},
		{"duplicate", RateCardFile{Rates: []RateImport{{Name: "A", Rate: 1}, {Name: "A", Rate: 2}}}, []string{`rates[1].name: duplicate "A" (first at rates[0])`}},
		{"case differs", RateCardFile{Rates: []RateImport{{Name: "A", Rate: 1}, {Name: "a", Rate: 2}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRateCard(&tt.file)
			var got []string
			for _, e := range errs {
				got = append(got, e.Error())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDocumentFile(t *testing.T) {
	path := writeFile(t, "sow.json", `{"sowData": {"projectTitle": "Portal", "scopes": [{"scopeName": "Build"}]}}`)

	doc, repairs, err := LoadDocumentFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Portal", doc.ProjectTitle)
	require.Len(t, doc.Scopes, 1)
	assert.NotEmpty(t, doc.Scopes[0].ID)
	assert.Equal(t, []domain.Role{}, doc.Scopes[0].Roles)
	assert.Len(t, repairs, 1)
}

func TestLoadDocumentFile_Malformed(t *testing.T) {
	path := writeFile(t, "sow.json", "not json at all")
	_, _, err := LoadDocumentFile(path)
	assert.ErrorIs(t, err, sanitize.ErrMalformedResponse)
}
