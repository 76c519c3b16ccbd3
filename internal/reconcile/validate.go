package reconcile

import (
	"encoding/json"

	"github.com/mduarte/ata/internal/domain"
)

// Accept parses raw JSON and decides whether it is a document at all.
// Acceptance requires a header object, a participants array (either the
// canonical "attendance" key or a "participants" alias), and an items
// array. Anything else is rejected with domain.ErrInvalidFormat; decode
// failures never escape as anything harsher.
func Accept(data []byte) (*Payload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, domain.ErrInvalidFormat
	}

	var header map[string]json.RawMessage
	if raw, ok := probe["header"]; !ok || json.Unmarshal(raw, &header) != nil {
		return nil, domain.ErrInvalidFormat
	}

	attendance, ok := probe["attendance"]
	if !ok {
		attendance, ok = probe["participants"]
	}
	var participants []json.RawMessage
	if !ok || json.Unmarshal(attendance, &participants) != nil {
		return nil, domain.ErrInvalidFormat
	}

	var items []json.RawMessage
	if raw, ok := probe["items"]; !ok || json.Unmarshal(raw, &items) != nil {
		return nil, domain.ErrInvalidFormat
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, domain.ErrInvalidFormat
	}
	if len(p.Participants) == 0 && len(participants) > 0 {
		// Payload carried the alias key; decode it explicitly.
		if err := json.Unmarshal(attendance, &p.Participants); err != nil {
			return nil, domain.ErrInvalidFormat
		}
	}
	return &p, nil
}
