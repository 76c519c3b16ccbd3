package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mduarte/ata/internal/domain"
)

// resolveDocumentID turns user input into a document id. Matching order:
// exact id, exact header number (case-insensitive), id prefix.
func resolveDocumentID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("document ID is required")
	}

	docs, err := app.Documents.List(ctx)
	if err != nil {
		return "", err
	}

	for _, d := range docs {
		if d.ID == input {
			return d.ID, nil
		}
	}

	for _, d := range docs {
		if d.Header.Number != "" && strings.EqualFold(d.Header.Number, input) {
			return d.ID, nil
		}
	}

	var matches []string
	for _, d := range docs {
		if strings.HasPrefix(d.ID, input) {
			matches = append(matches, d.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("document not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("document ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveItem turns user input into an item of the document. Matching
// order: exact item number, exact id, id prefix.
func resolveItem(doc *domain.Document, input string) (*domain.Item, error) {
	if input == "" {
		return nil, fmt.Errorf("item number or ID is required")
	}

	for _, it := range doc.Items {
		if it.Number == input {
			return it, nil
		}
	}

	for _, it := range doc.Items {
		if it.ID == input {
			return it, nil
		}
	}

	var matches []*domain.Item
	for _, it := range doc.Items {
		if strings.HasPrefix(it.ID, input) {
			matches = append(matches, it)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("item not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("item ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveEntry finds a history entry of an item by exact id or id prefix.
func resolveEntry(it *domain.Item, input string) (*domain.HistoryEntry, error) {
	if input == "" {
		return nil, fmt.Errorf("history entry ID is required")
	}

	for i := range it.History {
		if it.History[i].ID == input {
			return &it.History[i], nil
		}
	}

	var matches []*domain.HistoryEntry
	for i := range it.History {
		if strings.HasPrefix(it.History[i].ID, input) {
			matches = append(matches, &it.History[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("history entry not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("history entry ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
