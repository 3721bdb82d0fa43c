package table

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	sortAscIcon   = "▲"
	sortDescIcon  = "▼"
	collapsedIcon = "▾"
	expandedIcon  = "▴"

	loadingText = "Loading..."

	// narrowWidth is the width below which the first/last page controls
	// are hidden.
	narrowWidth = 72
	minColWidth = 4
)

// Caption returns the "showing A to B of N entries" line. The pre-filter
// total is reported while a search term is active.
func (m *Model[T]) Caption() string {
	n := len(m.Filtered())
	return CaptionText(n, len(m.data), m.page, m.pageSize, m.term != "")
}

// CaptionText is the "Showing X to Y of N entries" line of a page.
func CaptionText(n, total, page, size int, filtered bool) string {
	var start, end int
	if n > 0 {
		start = (page-1)*size + 1
		end = min(page*size, n)
	}
	s := fmt.Sprintf("Showing %d to %d of %d entries", start, end, n)
	if filtered {
		s += fmt.Sprintf(" (filtered from %d total entries)", total)
	}
	return s
}

// PageLabel returns the "Page X of Y" label.
func (m *Model[T]) PageLabel() string {
	return fmt.Sprintf("Page %d of %d", m.page, max(1, m.TotalPages()))
}

// View renders the table.
func (m *Model[T]) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	s := m.t.Table

	parts := []string{m.titleView(width)}
	if m.opts.Searchable {
		parts = append(parts, m.search.View())
	}

	widths := m.columnWidths(width)
	parts = append(parts,
		m.headerView(widths),
		s.Rule.Render(strings.Repeat("─", width)),
	)

	if m.loading {
		parts = append(parts, s.Loading.Width(width).Align(lipgloss.Center).Render(loadingText))
		return strings.Join(parts, "\n")
	}

	sorted := m.Sorted()
	visible := Paginate(sorted, m.page, m.pageSize)
	if len(visible) == 0 {
		parts = append(parts, s.Empty.Width(width).Align(lipgloss.Center).Render(m.opts.EmptyMessage))
	}
	for i, item := range visible {
		parts = append(parts, m.rowView(item, widths, i == m.cursor))
		if m.Expandable() && m.open[m.opts.ItemID(item)] {
			parts = append(parts, s.Expanded.Width(width).Render(m.opts.ExpandedRender(item)))
		}
	}

	parts = append(parts, s.Rule.Render(strings.Repeat("─", width)))
	if len(sorted) > 0 {
		parts = append(parts, m.footerView(width))
	}
	parts = append(parts, s.Caption.Render(m.Caption()))

	return strings.Join(parts, "\n")
}

func (m *Model[T]) titleView(width int) string {
	s := m.t.Table
	title := s.Title.Render(m.opts.Title)
	if m.opts.OnNewItem == nil {
		return title
	}
	button := s.NewItem.Render(m.opts.NewItemLabel)
	if m.loading {
		button = s.NewItemDisabled.Render(m.opts.NewItemLabel)
	}
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(button))
	return title + strings.Repeat(" ", gap) + button
}

func (m *Model[T]) headerView(widths []int) string {
	s := m.t.Table
	cells := make([]string, len(m.columns))
	for i, c := range m.columns {
		label := c.Label
		if c.sortable() && m.sorting.Key == c.Key {
			switch m.sorting.Direction {
			case Asc:
				label += " " + sortAscIcon
			case Desc:
				label += " " + sortDescIcon
			}
		}
		style := s.Header
		if i == m.header {
			style = s.HeaderFocused
		}
		cells[i] = renderCell(style, label, widths[i])
	}
	return strings.Join(cells, "")
}

func (m *Model[T]) rowView(item T, widths []int, selected bool) string {
	style := m.t.Table.Cell
	if selected {
		style = m.t.Table.SelectedCell
	}
	cells := make([]string, len(m.columns))
	for i, c := range m.columns {
		cells[i] = renderCell(style, m.cellContent(c, item), widths[i])
	}
	return strings.Join(cells, "")
}

// cellContent resolves the text of a cell: expander toggle, then the render
// override, then nothing for actions, then the field value.
func (m *Model[T]) cellContent(c Column[T], item T) string {
	switch {
	case c.Key == ExpanderKey && m.Expandable():
		if m.open[m.opts.ItemID(item)] {
			return expandedIcon
		}
		return collapsedIcon
	case c.Render != nil:
		return c.Render(item)
	case c.Key == ActionsKey:
		return ""
	case c.Value != nil:
		return Display(c.Value(item))
	}
	return ""
}

func (m *Model[T]) footerView(width int) string {
	s := m.t.Table

	sizes := make([]string, len(PageSizes))
	for i, size := range PageSizes {
		if size == m.pageSize {
			sizes[i] = s.PageSizeActive.Render(fmt.Sprint(size))
		} else {
			sizes[i] = s.PageSize.Render(fmt.Sprint(size))
		}
	}
	left := s.Footer.Render("Rows per page ") + strings.Join(sizes, " ")

	control := func(label string, enabled bool) string {
		if enabled {
			return s.Control.Render(label)
		}
		return s.ControlDisabled.Render(label)
	}
	controls := []string{control("‹", m.CanPrev()), control("›", m.CanNext())}
	if width >= narrowWidth {
		controls = []string{
			control("«", m.CanPrev()),
			controls[0],
			controls[1],
			control("»", m.CanNext()),
		}
	}
	right := s.Footer.Render(m.PageLabel()) + "  " + strings.Join(controls, " ")

	gap := max(2, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// columnWidths gives fixed-width columns their hint and splits the rest of
// the width evenly among the others.
func (m *Model[T]) columnWidths(width int) []int {
	widths := make([]int, len(m.columns))
	fixed, flex := 0, 0
	for i, c := range m.columns {
		if c.Width > 0 {
			widths[i] = c.Width
			fixed += c.Width
		} else {
			flex++
		}
	}
	if flex == 0 {
		return widths
	}
	rest := max(0, width-fixed)
	each := max(minColWidth, rest/flex)
	extra := max(0, rest-each*flex)
	for i, c := range m.columns {
		if c.Width > 0 {
			continue
		}
		widths[i] = each
		if extra > 0 {
			widths[i]++
			extra--
		}
	}
	return widths
}

func renderCell(style lipgloss.Style, content string, width int) string {
	content = strings.ReplaceAll(content, "\n", " ")
	inner := max(0, width-style.GetHorizontalFrameSize())
	content = ansi.Truncate(content, inner, "…")
	return style.Width(width).MaxWidth(width).Render(content)
}
