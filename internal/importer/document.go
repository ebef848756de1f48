package importer

import (
	"fmt"
	"os"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

// LoadDocumentFile reads a SOW document exported as JSON. Both the bare
// document and the {"sowData": ...} wrapper are accepted; fenced or
// commented model output is cleaned the same way the sanitizer does.
// The document is schema-repaired but not priced.
func LoadDocumentFile(path string) (*domain.SOWDocument, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading document file: %w", err)
	}
	payload, err := sanitize.Parse(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	doc, repairs := sanitize.RepairSchema(payload.Document)
	return doc, repairs, nil
}
