package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/sanitize"
)

// FormatDocumentList renders documents as a table, newest first as given.
func FormatDocumentList(docs []*domain.Document) string {
	headers := []string{"ID", "NUMBER", "DATE", "TITLE", "PROJECT", "ITEMS", ""}
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		flag := ""
		if d.Archived {
			flag = Dim("archived")
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			d.Header.Number,
			d.Header.Date,
			Bold(d.Header.Title),
			d.Header.Project,
			strconv.Itoa(len(d.Items)),
			flag,
		})
	}
	return RenderTable(headers, rows)
}

// FormatDocumentShow renders the full document: header fields, the
// participant table, and the item tree with per-item history.
func FormatDocumentShow(doc *domain.Document) string {
	var b strings.Builder

	b.WriteString(Header(doc.Header.Title) + "\n")
	if doc.Archived {
		b.WriteString(StyleDim.Render("✖ Archived") + "\n")
	}
	b.WriteString(fmt.Sprintf("%s %s    %s %s    %s %s\n",
		Dim("Number:"), doc.Header.Number,
		Dim("Date:"), doc.Header.Date,
		Dim("Type:"), doc.Header.Type))
	b.WriteString(fmt.Sprintf("%s %s    %s %s\n",
		Dim("Owner:"), doc.Header.Owner,
		Dim("Project:"), doc.Header.Project))

	b.WriteString("\n" + Header("Participants") + "\n")
	pRows := make([][]string, 0, len(doc.Participants))
	for _, p := range doc.Participants {
		pRows = append(pRows, []string{p.Name, p.Company, p.Email, AttendancePill(p.Attendance)})
	}
	b.WriteString(RenderTable([]string{"NAME", "COMPANY", "E-MAIL", "PRESENCE"}, pRows))

	b.WriteString("\n" + Header("Items") + "\n")
	b.WriteString(RenderItemTree(doc.Items))

	return b.String()
}

// FormatItemHistory renders an item's full history log, oldest first. The
// entry ids are shown so individual entries can be addressed.
func FormatItemHistory(it *domain.Item) string {
	var b strings.Builder
	b.WriteString(Header("Item "+it.Number) + "\n")
	for i, e := range it.History {
		marker := "  "
		if i == len(it.History)-1 {
			marker = StyleGreen.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			marker,
			TruncID(e.ID),
			Dim(domain.TodayDate(e.RecordedAt)),
			sanitize.Strip(e.Description))
		b.WriteString(line + "  " + StatusPill(e.Status) + "\n")
	}
	return b.String()
}

// TruncID returns the first 13 characters of an id, dimmed. That is long
// enough to keep the "ata-"/"item-"/"hist-" prefix plus a uuid block.
func TruncID(id string) string {
	if len(id) > 13 {
		id = id[:13]
	}
	return StyleDim.Render(id)
}
