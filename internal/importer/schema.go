// Package importer reads rate cards and SOW documents from files.
package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RateCardFile is the top-level structure of a rate card import file.
//
//	rates:
//	  - name: Project Manager
//	    rate: 100
type RateCardFile struct {
	Rates []RateImport `yaml:"rates"`
}

// RateImport is one rate card line in the import file.
type RateImport struct {
	Name string `yaml:"name"`
	Rate int    `yaml:"rate"`
}

// LoadRateCardFile reads and parses a rate card YAML file. JSON files parse
// too, since JSON is valid YAML.
func LoadRateCardFile(path string) (*RateCardFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rate card file: %w", err)
	}
	return ParseRateCard(data)
}

// ParseRateCard parses rate card YAML. Unknown keys are rejected so that
// typos like "rates_" do not silently import nothing.
func ParseRateCard(data []byte) (*RateCardFile, error) {
	var file RateCardFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing rate card: %w", err)
	}
	return &file, nil
}
