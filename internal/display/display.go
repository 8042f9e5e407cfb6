// Package display holds the terminal rendering helpers shared by the
// commands: color accents and the status table.
package display

import (
	"strings"

	gkcolor "github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

func Green(s string) string {
	return gkcolor.FgGreen.Sprint(s)
}

func Red(s string) string {
	return gkcolor.FgRed.Sprint(s)
}

func Gold(s string) string {
	return gkcolor.RGB(181, 181, 91).Sprint(s)
}

func Grey(s string) string {
	return gkcolor.RGB(138, 138, 138).Sprint(s)
}

// Colorize picks the accent for a resource status string: green for healthy
// terminal states, gold for transitional ones, red for the rest.
func Colorize(status string) string {
	switch strings.ToLower(status) {
	case "running", "active", "deployed", "available", "healthy", "enabled", "complete":
		return Green(status)
	case "pending", "provisioning", "in-progress", "inprogress", "updating":
		return Gold(status)
	case "adopted", "not deployed":
		return Grey(status)
	default:
		return Red(status)
	}
}

// RenderTable renders rows under a header into a bordered table string.
func RenderTable(headers []string, rows [][]string) (string, error) {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	table.Header(hdr...)
	if err := table.Bulk(rows); err != nil {
		return "", err
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
