// Package share encodes documents into self-contained link fragments. A
// fragment carries the whole document, so a link works without any server
// side: the receiver decodes it locally and imports the payload.
//
// Three fragment forms are recognized on decode. "z" marks the standard
// compressed form, "m" marks the minimal form that keeps only the latest
// history entry per item to fit small carriers, and a bare fragment is
// treated as uncompressed base64 JSON for links produced before
// compression existed.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
)

const (
	prefixCompressed = "z"
	prefixMinimal    = "m"
)

// minimalPayload is the short-key envelope of the minimal form.
type minimalPayload struct {
	Header       reconcile.HeaderPayload        `json:"c"`
	Participants []reconcile.ParticipantPayload `json:"a"`
	Items        []minimalItem                  `json:"i"`
}

// minimalItem drops the history log and carries only the latest entry.
type minimalItem struct {
	ID        string                  `json:"id"`
	Number    string                  `json:"number"`
	Level     int                     `json:"level"`
	ParentID  *string                 `json:"parentId"`
	ChildIDs  []string                `json:"childIds"`
	CreatedAt string                  `json:"createdAt"`
	Latest    *reconcile.EntryPayload `json:"u"`
}

// Encode produces the standard compressed fragment for a document payload.
func Encode(p *reconcile.Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding share payload: %w", err)
	}
	return prefixCompressed + deflateBase64(data), nil
}

// EncodeMinimal produces the minimal fragment: only the latest history
// entry per item survives, so the decoded document starts a fresh log.
func EncodeMinimal(p *reconcile.Payload) (string, error) {
	m := minimalPayload{
		Header:       p.Header,
		Participants: p.Participants,
		Items:        make([]minimalItem, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		mi := minimalItem{
			ID:        it.ID,
			Number:    it.Number,
			Level:     it.Level,
			ParentID:  it.ParentID,
			ChildIDs:  it.ChildIDs,
			CreatedAt: it.CreatedAt,
		}
		switch {
		case it.LatestEntry != nil:
			entry := *it.LatestEntry
			mi.Latest = &entry
		case len(it.History) > 0:
			entry := it.History[len(it.History)-1]
			mi.Latest = &entry
		}
		m.Items = append(m.Items, mi)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding minimal share payload: %w", err)
	}
	return prefixMinimal + deflateBase64(data), nil
}

// Link joins a base URL and a fragment into a shareable address.
func Link(baseURL, fragment string) string {
	return strings.TrimRight(baseURL, "/") + "/#" + fragment
}

// Decode parses a fragment back into a document payload. The fragment may
// still carry its leading "#". Anything that fails to decompress, parse,
// or pass payload acceptance surfaces domain.ErrInvalidFormat.
func Decode(fragment string) (*reconcile.Payload, error) {
	s := strings.TrimSpace(strings.TrimPrefix(fragment, "#"))
	if s == "" {
		return nil, fmt.Errorf("empty share fragment: %w", domain.ErrInvalidFormat)
	}

	switch {
	case strings.HasPrefix(s, prefixMinimal):
		data, err := inflateBase64(s[len(prefixMinimal):])
		if err != nil {
			return nil, err
		}
		expanded, err := expandMinimal(data)
		if err != nil {
			return nil, err
		}
		return reconcile.Accept(expanded)
	case strings.HasPrefix(s, prefixCompressed):
		data, err := inflateBase64(s[len(prefixCompressed):])
		if err != nil {
			return nil, err
		}
		return reconcile.Accept(data)
	default:
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decoding share fragment: %w", domain.ErrInvalidFormat)
		}
		return reconcile.Accept(data)
	}
}

// expandMinimal rebuilds a full payload from the minimal envelope, turning
// each item's latest entry into a one-entry history.
func expandMinimal(data []byte) ([]byte, error) {
	var m minimalPayload
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing minimal share payload: %w", domain.ErrInvalidFormat)
	}
	p := reconcile.Payload{
		Header:       m.Header,
		Participants: m.Participants,
		Items:        make([]reconcile.ItemPayload, 0, len(m.Items)),
	}
	if p.Participants == nil {
		p.Participants = []reconcile.ParticipantPayload{}
	}
	for _, mi := range m.Items {
		ip := reconcile.ItemPayload{
			ID:        mi.ID,
			Number:    mi.Number,
			Level:     mi.Level,
			ParentID:  mi.ParentID,
			ChildIDs:  mi.ChildIDs,
			CreatedAt: mi.CreatedAt,
		}
		if ip.ChildIDs == nil {
			ip.ChildIDs = []string{}
		}
		if mi.Latest != nil {
			ip.History = []reconcile.EntryPayload{*mi.Latest}
			ip.LatestEntry = mi.Latest
		} else {
			ip.History = []reconcile.EntryPayload{}
		}
		p.Items = append(p.Items, ip)
	}
	out, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("rebuilding share payload: %w", err)
	}
	return out, nil
}

func deflateBase64(data []byte) string {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	w.Write(data)
	w.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func inflateBase64(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding share fragment: %w", domain.ErrInvalidFormat)
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing share fragment: %w", domain.ErrInvalidFormat)
	}
	return data, nil
}
