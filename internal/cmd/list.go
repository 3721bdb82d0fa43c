package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	ltable "charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/mattn/go-isatty"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/ui/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var outputFormats = []string{"table", "json", "yaml"}

type listFlags struct {
	search   string
	sort     string
	desc     bool
	page     int
	pageSize int
	output   string
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Only show records containing this text")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort by a column")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page to show")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 10, "Records per page")
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format: "+strings.Join(outputFormats, ", "))
}

// listColumn is one column of a listing. name is the key accepted by --sort.
type listColumn[T any] struct {
	name  string
	label string
	value func(T) any
	text  func(T) string
}

func (c listColumn[T]) cell(item T) string {
	if c.text != nil {
		return c.text(item)
	}
	return table.Display(c.value(item))
}

// listing is one page of records after search and sort.
type listing[T any] struct {
	rows     []T
	columns  []listColumn[T]
	matched  int
	total    int
	page     int
	pages    int
	size     int
	filtered bool
}

// buildListing runs data through the same search, sort and paging steps as
// the dashboard tables.
func buildListing[T any](data []T, columns []listColumn[T], f listFlags) (listing[T], error) {
	if !slices.Contains(outputFormats, f.output) {
		return listing[T]{}, fmt.Errorf("unknown output format %q, use one of: %s", f.output, strings.Join(outputFormats, ", "))
	}
	if f.pageSize < 1 || f.pageSize > api.MaxPageSize {
		return listing[T]{}, fmt.Errorf("page size must be between 1 and %d", api.MaxPageSize)
	}

	rows := table.Filter(data, strings.TrimSpace(f.search), table.FieldStrings[T])
	if f.sort != "" {
		i := slices.IndexFunc(columns, func(c listColumn[T]) bool { return c.name == f.sort })
		if i < 0 {
			names := make([]string, 0, len(columns))
			for _, c := range columns {
				names = append(names, c.name)
			}
			return listing[T]{}, fmt.Errorf("cannot sort by %q, use one of: %s", f.sort, strings.Join(names, ", "))
		}
		dir := table.Asc
		if f.desc {
			dir = table.Desc
		}
		rows = table.Sort(rows, columns[i].value, dir, table.NewComparer(language.English))
	}

	l := listing[T]{
		columns:  columns,
		matched:  len(rows),
		total:    len(data),
		size:     f.pageSize,
		filtered: strings.TrimSpace(f.search) != "",
	}
	l.pages = table.TotalPages(l.matched, l.size)
	l.page = table.ClampPage(f.page, l.pages)
	l.rows = table.Paginate(rows, l.page, l.size)
	return l, nil
}

func (l listing[T]) caption() string {
	return fmt.Sprintf("%s, page %d of %d",
		table.CaptionText(l.matched, l.total, l.page, l.size, l.filtered), l.page, max(1, l.pages))
}

func writeListing[T any](w io.Writer, l listing[T], format, empty string) error {
	switch format {
	case "json":
		return writeJSON(w, l.rows)
	case "yaml":
		return writeYAML(w, l.rows)
	}

	if l.matched == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	headers := make([]string, 0, len(l.columns))
	for _, c := range l.columns {
		headers = append(headers, c.label)
	}
	rows := make([][]string, 0, len(l.rows))
	for _, item := range l.rows {
		row := make([]string, 0, len(l.columns))
		for _, c := range l.columns {
			row = append(row, c.cell(item))
		}
		rows = append(rows, row)
	}

	if !isTerminal(w) {
		lines := []string{strings.Join(headers, "\t")}
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(charmtone.Charple).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(charmtone.Squid)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return header
			}
			return cell
		})
	caption := lipgloss.NewStyle().Foreground(charmtone.Squid).Render(l.caption())
	_, err := lipgloss.Fprintln(w, t.String()+"\n"+caption)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML writes v with the same field names as its JSON form.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// listError turns API failures into something to act on.
func listError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return errors.New("session expired, run proptic login again")
	case errors.Is(err, api.ErrNetwork):
		return fmt.Errorf("could not reach the platform API: %w", err)
	}
	return err
}
