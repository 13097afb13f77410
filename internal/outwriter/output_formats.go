package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteFormatDescriptors lists the supported report formats.
func WriteFormatDescriptors(w io.Writer, descs []registry.Descriptor, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, descs); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeCSVWithHeader(w, []string{"format", "kind", "description"}, func(csvWriter *csv.Writer) error {
			for _, d := range descs {
				if err := csvWriter.Write([]string{string(d.Format), d.Kind, d.Description}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Format", "Kind", "Description"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		data := make([][]string, 0, len(descs))
		for _, d := range descs {
			data = append(data, []string{string(d.Format), d.Kind, d.Description})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}
	return nil
}
