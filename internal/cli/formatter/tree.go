package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/numbering"
	"github.com/mduarte/ata/internal/sanitize"
)

// RenderItemTree renders the item forest in number order, indented by
// level. Parent items show only number and description; leaves carry a
// right-aligned status pill plus owner and due date when set.
func RenderItemTree(items []*domain.Item) string {
	sorted := numbering.Sorted(items)
	if len(sorted) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(sorted))
	maxContentWidth := 0

	for idx, it := range sorted {
		indent := strings.Repeat("  ", it.Level-1)
		number := StyleGreen.Render(it.Number)
		desc := sanitize.Strip(it.LatestEntry.Description)
		if desc == "" {
			desc = Dim("(empty)")
		}

		var content string
		if it.IsParent() {
			content = indent + number + " " + Bold(desc)
		} else {
			content = indent + number + " " + StyleFg.Render(desc)
			lines[idx].badge = StatusPill(it.LatestEntry.Status)
			if meta := leafMeta(it.LatestEntry); meta != "" {
				content += "  " + Dim(meta)
			}
		}
		lines[idx].content = content

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}
	return b.String()
}

func leafMeta(e domain.HistoryEntry) string {
	var parts []string
	if e.Owner.Name != "" {
		parts = append(parts, e.Owner.Name)
	} else if e.Owner.Email != "" {
		parts = append(parts, e.Owner.Email)
	}
	if e.DueDate != nil {
		parts = append(parts, "due "+e.DueDate.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}
