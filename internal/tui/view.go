package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/Sternrassler/artic-table/pkg/table"
)

type column struct {
	title string
	width int
	value func(artwork.Artwork) string
}

// The title header carries a sort hint; rows keep collection order.
var columns = []column{
	{title: "▾ Title", width: 32, value: func(a artwork.Artwork) string { return a.Title }},
	{title: "Place of Origin", width: 16, value: func(a artwork.Artwork) string { return a.PlaceOfOrigin }},
	{title: "Artist", width: 28, value: func(a artwork.Artwork) string { return a.ArtistDisplay }},
	{title: "Inscriptions", width: 20, value: func(a artwork.Artwork) string { return a.InscriptionsText() }},
	{title: "Start Date", width: 10, value: func(a artwork.Artwork) string { return strconv.Itoa(a.DateStart) }},
	{title: "End Date", width: 10, value: func(a artwork.Artwork) string { return strconv.Itoa(a.DateEnd) }},
}

func (m *Model) View() string {
	st := m.session.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Art Institute of Chicago: Artworks"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(st))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(st))

	if m.overlay {
		b.WriteString("\n\n")
		b.WriteString(m.renderOverlay(st))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	if m.overlay {
		b.WriteString(m.help.ShortHelpView(m.keys.overlayHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.tableHelp()))
	}
	return b.String()
}

func (m *Model) renderTable(st table.State) string {
	var b strings.Builder

	header := []string{"   "}
	for _, c := range columns {
		header = append(header, cell(c.title, c.width))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(st.Rows) == 0 {
		if st.Loading {
			b.WriteString(mutedStyle.Render("Loading…"))
		} else {
			b.WriteString(mutedStyle.Render("No artworks"))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, r := range st.Rows {
		box := "[ ]"
		if st.Selection.Has(r.ID) {
			box = "[x]"
		}
		parts := []string{box}
		for _, c := range columns {
			parts = append(parts, cell(c.value(r), c.width))
		}
		line := strings.Join(parts, " ")
		if st.Selection.Has(r.ID) {
			line = selectedStyle.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderFooter(st table.State) string {
	var parts []string
	switch st.Mode {
	case table.ModeBulkPreview:
		parts = append(parts, fmt.Sprintf("Showing first %d of %d selected (%d fetched, %d total)",
			len(st.Rows), st.Selection.Len(), st.Walked, st.Total))
	default:
		first := st.First()
		last := first + len(st.Rows)
		if len(st.Rows) > 0 {
			first++
		}
		parts = append(parts,
			fmt.Sprintf("Showing %d to %d of %d", first, last, st.Total),
			fmt.Sprintf("page %d/%d", st.Page, st.PageCount()),
			fmt.Sprintf("%d per page", st.PageSize),
		)
	}
	parts = append(parts, fmt.Sprintf("%d selected", st.Selection.Len()))
	if st.Loading {
		parts = append(parts, "loading…")
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderOverlay(st table.State) string {
	button := buttonDisabledStyle.Render("Submit")
	if !m.walking && m.session.CanSubmit(m.input.Value()) {
		button = buttonStyle.Render("Submit")
	}

	lines := []string{
		"Select the first N rows",
		m.input.View(),
		"",
		button,
	}
	if m.walking {
		lines = append(lines, mutedStyle.Render("Fetching rows… (esc to cancel)"))
	} else if st.Total > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("1 to %d", st.Total)))
	}
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// cell fits s into width terminal cells, truncating and padding as needed.
func cell(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
