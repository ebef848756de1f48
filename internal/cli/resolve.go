package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveSOWID resolves a SOW reference which can be:
//   - A full SOW id
//   - A unique id prefix (as shown by 'sow ls')
//   - An exact SOW name, case-insensitive
func resolveSOWID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("SOW id is required")
	}

	sows, err := app.SOWs.List(ctx)
	if err != nil {
		return "", err
	}

	for _, s := range sows {
		if s.ID == input {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range sows {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	if len(matches) == 0 {
		for _, s := range sows {
			if strings.EqualFold(s.Name, input) {
				matches = append(matches, s.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("SOW not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("SOW reference %q is ambiguous (%d matches)", input, len(matches))
	}
}
