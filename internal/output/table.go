package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/thebagchi/bitstream-go/internal/layout"
)

// Table renders one row per field.
type Table struct{}

// Name implements Renderer.
func (Table) Name() string { return FormatTable }

// Render implements Renderer.
func (Table) Render(w io.Writer, values []layout.Value) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Kind", "Pos", "Width", "Value"})

	// Configure table style for clean output
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, v := range values {
		table.Append([]string{
			v.Name,
			string(v.Kind),
			strconv.FormatUint(v.Pos, 10),
			strconv.FormatUint(v.Width, 10),
			v.Text(),
		})
	}

	table.Render()
	return nil
}
