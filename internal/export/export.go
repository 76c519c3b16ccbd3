// Package export renders a document as a standalone HTML file. The file is
// self-contained: inline styles, no external assets, and the full document
// payload embedded as JSON so the file itself can be imported back.
package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/numbering"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/sanitize"
	"github.com/mduarte/ata/internal/share"
)

//go:embed templates/document.html
var templateFS embed.FS

var documentTemplate *template.Template

func init() {
	content, err := templateFS.ReadFile("templates/document.html")
	if err != nil {
		panic(fmt.Sprintf("loading document template: %v", err))
	}
	documentTemplate = template.Must(template.New("document").Parse(string(content)))
}

// Options controls optional parts of the rendered file.
type Options struct {
	// AppBaseURL, when set, adds an "open in app" share link at the top of
	// the file.
	AppBaseURL string
}

// templateData is the root view model for the document template.
type templateData struct {
	Header       domain.Header
	Participants []participantView
	Items        []itemView
	AppLink      string
	EmbeddedJSON template.JS
}

type participantView struct {
	Name     string
	Company  string
	Email    string
	Phone    string
	Presence string
	Present  bool
}

type itemView struct {
	Number      string
	Description template.HTML
	Owner       string
	DueDate     string
	Status      string
	Done        bool
	IsParent    bool
}

// HTML renders the document into a standalone HTML page.
func HTML(doc *domain.Document, opts Options) (string, error) {
	data, err := buildTemplateData(doc, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering document %s: %w", doc.ID, err)
	}
	return buf.String(), nil
}

// WriteFile renders the document and writes it to path.
func WriteFile(doc *domain.Document, opts Options, path string) error {
	html, err := HTML(doc, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

func buildTemplateData(doc *domain.Document, opts Options) (*templateData, error) {
	payload := reconcile.FromDocument(doc)

	embedded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("embedding document %s: %w", doc.ID, err)
	}

	data := &templateData{
		Header: doc.Header,
		// json.Marshal escapes angle brackets, so the payload cannot
		// terminate the surrounding script element.
		EmbeddedJSON: template.JS(embedded),
	}

	if opts.AppBaseURL != "" {
		fragment, err := share.Encode(payload)
		if err != nil {
			return nil, err
		}
		data.AppLink = share.Link(opts.AppBaseURL, fragment)
	}

	for _, p := range doc.Participants {
		pv := participantView{
			Name:    p.Name,
			Company: p.Company,
			Email:   p.Email,
			Phone:   p.Phone,
		}
		switch p.Attendance {
		case domain.AttendancePresent:
			pv.Presence = "P"
			pv.Present = true
		case domain.AttendanceAbsent:
			pv.Presence = "A"
		}
		data.Participants = append(data.Participants, pv)
	}

	for _, it := range numbering.Sorted(doc.Items) {
		iv := itemView{
			Number:      it.Number,
			Description: describe(it),
			IsParent:    it.IsParent(),
		}
		if !iv.IsParent {
			iv.Owner = ownerLine(it.LatestEntry.Owner)
			if it.LatestEntry.DueDate != nil {
				iv.DueDate = it.LatestEntry.DueDate.Format("2006-01-02")
			}
			iv.Status = string(it.LatestEntry.Status)
			iv.Done = it.LatestEntry.Status == domain.StatusDone
		}
		data.Items = append(data.Items, iv)
	}
	return data, nil
}

// describe renders the item's full history, newest entry last. Earlier
// entries are wrapped in a dimmed span so the current state stands out.
func describe(it *domain.Item) template.HTML {
	var buf bytes.Buffer
	for i, e := range it.History {
		if i > 0 {
			buf.WriteString("<br/>")
		}
		line := template.HTMLEscapeString(domain.TodayDate(e.RecordedAt)) + ": " + sanitize.RichText(e.Description)
		if i < len(it.History)-1 {
			buf.WriteString(`<span class="prior">` + line + `</span>`)
		} else {
			buf.WriteString(line)
		}
	}
	return template.HTML(buf.String())
}

func ownerLine(o domain.Owner) string {
	switch {
	case o.Name != "" && o.Email != "":
		return o.Name + " / " + o.Email
	case o.Name != "":
		return o.Name
	default:
		return o.Email
	}
}
