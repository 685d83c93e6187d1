package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Formatter handles output formatting
type Formatter struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
}

// NewFormatter creates a new formatter. Colors are used only when writer is
// a terminal that supports them.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer:   writer,
		renderer: lipgloss.NewRenderer(writer),
	}
}

// FormatCatalogJSON formats a catalog as JSON
func (f *Formatter) FormatCatalogJSON(c CatalogDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

// FormatResult formats any command result as JSON
func (f *Formatter) FormatResult(result any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// FormatCatalogTable renders a catalog as a bordered table.
func (f *Formatter) FormatCatalogTable(c CatalogDTO) error {
	var (
		headerStyle = f.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#54A0FF")).Padding(0, 1)
		cellStyle   = f.renderer.NewStyle().Padding(0, 1)
		mutedStyle  = cellStyle.Foreground(lipgloss.Color("#BBBBBB"))
		titleStyle  = f.renderer.NewStyle().Bold(true)
	)

	rows := make([][]string, 0, len(c.Settings))
	for _, s := range c.Settings {
		rows = append(rows, []string{
			s.Key,
			s.Label,
			s.Type,
			describeControl(s),
			describeDefault(s),
			strconv.Itoa(s.Order),
			strings.Join(s.Flags, ","),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.renderer.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))).
		Headers("KEY", "LABEL", "TYPE", "CONTROL", "DEFAULT", "ORDER", "FLAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 6:
				return mutedStyle
			default:
				return cellStyle
			}
		})

	title := titleStyle.Render(fmt.Sprintf("%s (%d settings)", c.Name, c.Count))
	_, err := fmt.Fprintf(f.writer, "%s\n%s\n", title, t.Render())
	return err
}

func describeControl(s SettingDTO) string {
	switch s.Control {
	case "Slider":
		var b strings.Builder
		b.WriteString("Slider ")
		b.WriteString(formatBound(s.Min))
		b.WriteString("..")
		b.WriteString(formatBound(s.Max))
		if s.Step != nil {
			b.WriteString(" step ")
			b.WriteString(strconv.FormatFloat(*s.Step, 'g', -1, 64))
		}
		if s.Unit != "" {
			b.WriteString(" ")
			b.WriteString(s.Unit)
		}
		return b.String()
	case "Dropdown":
		opts := s.Options
		if s.ReverseOrder {
			opts = make([]string, len(s.Options))
			for i, o := range s.Options {
				opts[len(s.Options)-1-i] = o
			}
		}
		return "Dropdown [" + strings.Join(opts, "|") + "]"
	default:
		return s.Control
	}
}

func formatBound(p *float64) string {
	if p == nil {
		return "?"
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

func describeDefault(s SettingDTO) string {
	if s.Default == nil {
		return "-"
	}
	return s.Default.String()
}
