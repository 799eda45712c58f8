package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/postfeed/internal/posts"
)

// maxTitleWidth bounds the title column in plain tables.
const maxTitleWidth = 60

// RenderPostsTable writes posts as a bordered id/title table followed by a
// count line. width <= 0 leaves the table at its natural width.
func RenderPostsTable(w io.Writer, items []posts.Summary, width int) error {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{strconv.Itoa(p.ID), truncateTitle(p.Title, maxTitleWidth)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(InfoStyle).
		Headers("ID", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 0 {
				return TableCellStyle.Foreground(colorAccent).Align(lipgloss.Right)
			}
			return TableCellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}

	p := message.NewPrinter(language.English)
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), p.Sprintf("%d posts", len(items)))
	return err
}

// RenderPostsJSON writes posts as an indented JSON array.
func RenderPostsJSON(w io.Writer, items []posts.Summary) error {
	if items == nil {
		items = []posts.Summary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// RenderPostDetail writes one post as labelled id, title and body lines.
func RenderPostDetail(w io.Writer, p posts.Detail) error {
	label := lipgloss.NewStyle().Bold(true)
	_, err := fmt.Fprintf(w, "%s%d\n%s%s\n%s%s\n",
		label.Render("ID: "), p.ID,
		label.Render("Title: "), p.Title,
		label.Render("Body: "), p.Body,
	)
	return err
}

func truncateTitle(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
