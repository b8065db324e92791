package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/UnknownOlympus/zynor/internal/listing"
	"github.com/UnknownOlympus/zynor/internal/report"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	exportPerm = 0o644
)

type listOptions struct {
	search   string
	sort     string
	desc     bool
	page     int
	pageSize int
	export   string
	out      string
}

func addListFlags(fs *flag.FlagSet) *listOptions {
	o := &listOptions{}
	fs.StringVar(&o.search, "search", "", "case-insensitive search term")
	fs.StringVar(&o.sort, "sort", "", "column to sort by")
	fs.BoolVar(&o.desc, "desc", false, "sort descending")
	fs.IntVar(&o.page, "page", 1, "page number")
	fs.IntVar(&o.pageSize, "page-size", listing.DefaultPageSize, fmt.Sprintf("rows per page, one of %v", listing.PageSizes))
	fs.StringVar(&o.export, "export", "", "export the matching rows instead of printing them: csv or xlsx")
	fs.StringVar(&o.out, "out", "", "export file, - for stdout")
	return o
}

func applyOptions[T any](v *listing.View[T], o *listOptions) error {
	v.SetSearch(o.search)

	dir := listing.Asc
	if o.desc {
		dir = listing.Desc
	}
	if err := v.SetSort(o.sort, dir); err != nil {
		return usagef("%v", err)
	}
	if err := v.SetPageSize(o.pageSize); err != nil {
		return usagef("%v", err)
	}
	v.GoTo(o.page)
	return nil
}

// xlsxExporter renders rows as a workbook.
type xlsxExporter[T any] func(rows []T) (*bytes.Buffer, error)

// showList applies o to v and prints the current page, or exports every
// matching row when o asks for it.
func showList[T any](a *App, v *listing.View[T], schema listing.Schema[T], o *listOptions, xlsx xlsxExporter[T]) error {
	if err := applyOptions(v, o); err != nil {
		return err
	}

	switch {
	case o.export == "":
	case o.export == formatCSV:
		return exportCSV(a, v, o.out)
	case o.export == formatXLSX && xlsx != nil:
		return exportXLSX(a, v, xlsx, o.out)
	default:
		return usagef("%s", a.Lang.Tf("cli.unknown_format", map[string]any{"format": o.export}))
	}

	if v.Count() == 0 {
		a.say("cli.no_records", nil)
		return nil
	}

	if err := printTable(a.Stdout, schema, v.PageRows()); err != nil {
		return err
	}
	a.say("cli.page", map[string]any{"page": v.Page(), "total": v.TotalPages(), "count": v.Count()})
	return nil
}

func exportCSV[T any](a *App, v *listing.View[T], out string) error {
	var buf bytes.Buffer
	if err := v.ExportCSV(&buf); err != nil {
		if errors.Is(err, listing.ErrNothingToExport) {
			a.say("cli.nothing_to_export", nil)
			return nil
		}
		return err
	}
	return a.writeExport(formatCSV, out, listing.CSVFilename, buf.Bytes(), v.Count())
}

func exportXLSX[T any](a *App, v *listing.View[T], xlsx xlsxExporter[T], out string) error {
	rows := v.Rows()
	if len(rows) == 0 {
		a.say("cli.nothing_to_export", nil)
		return nil
	}

	buf, err := xlsx(rows)
	if err != nil {
		return fmt.Errorf("failed to generate workbook: %w", err)
	}
	return a.writeExport(formatXLSX, out, report.XLSXFilename, buf.Bytes(), len(rows))
}

// writeExport writes data to out, the default file name when out is
// empty, or stdout when out is "-".
func (a *App) writeExport(format, out, defaultName string, data []byte, count int) error {
	if out == "" {
		out = defaultName
	}

	if out == "-" {
		if _, err := a.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	} else if err := os.WriteFile(out, data, exportPerm); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if a.Metrics != nil {
		a.Metrics.Exports.WithLabelValues(format).Inc()
	}
	a.Log.Info("Listing exported", "format", format, "rows", count, "path", out)

	if out != "-" {
		a.say("cli.exported", map[string]any{"count": count, "path": out})
	}
	return nil
}

func printTable[T any](w io.Writer, schema listing.Schema[T], rows []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding

	headers := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		headers = append(headers, col.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		cells := make([]string, 0, len(schema.Columns))
		for _, col := range schema.Columns {
			cells = append(cells, col.Value(row))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print table: %w", err)
	}
	return nil
}

func printRecord[T any](w io.Writer, schema listing.Schema[T], item T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	for _, col := range schema.Columns {
		fmt.Fprintf(tw, "%s:\t%s\n", col.Header, col.Value(item))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print record: %w", err)
	}
	return nil
}
