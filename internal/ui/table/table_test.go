package table

import (
	"fmt"
	"strconv"
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/ui/styles"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int
	Name string
}

func recordID(r record) string { return strconv.Itoa(r.ID) }

func newTable(t *testing.T, data []record, opts Options[record]) *Model[record] {
	t.Helper()
	st := styles.DefaultStyles()
	if opts.ItemID == nil {
		opts.ItemID = recordID
	}
	columns := []Column[record]{
		{Key: ExpanderKey},
		{Key: Field("ID"), Label: "ID", Value: func(r record) any { return r.ID }, Width: 6},
		{Key: Field("Name"), Label: "Name", Sortable: true, Value: func(r record) any { return r.Name }},
		{Key: ActionsKey, Label: "Actions", Sortable: true},
	}
	m := New(&st, columns, opts)
	m.SetWidth(100)
	m.SetData(data)
	return m
}

func records(n int) []record {
	out := make([]record, n)
	for i := range out {
		out[i] = record{ID: i + 1, Name: fmt.Sprintf("record %02d", i+1)}
	}
	return out
}

func ids(rs []record) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func keyPress(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestToggleSortByHeader(t *testing.T) {
	t.Parallel()

	m := newTable(t, []record{{ID: 1, Name: "B"}, {ID: 2, Name: "A"}}, Options[record]{})

	m.ToggleSort(Field("Name"))
	require.Equal(t, []string{"A", "B"}, []string{m.Visible()[0].Name, m.Visible()[1].Name})
	require.Contains(t, ansi.Strip(m.View()), "Name "+sortAscIcon)

	m.ToggleSort(Field("Name"))
	require.Equal(t, []string{"B", "A"}, []string{m.Visible()[0].Name, m.Visible()[1].Name})
	require.Contains(t, ansi.Strip(m.View()), "Name "+sortDescIcon)
}

func TestToggleSortIgnoresUnsortableColumns(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(3), Options[record]{})
	m.ToggleSort(Field("ID"))
	m.ToggleSort(ActionsKey)
	m.ToggleSort(ExpanderKey)
	require.False(t, m.Sorting().Active())
}

func TestSortKeyUsesHeaderCursor(t *testing.T) {
	t.Parallel()

	m := newTable(t, []record{{ID: 1, Name: "B"}, {ID: 2, Name: "A"}}, Options[record]{})
	m.Update(keyPress("s"))
	require.Equal(t, Sorting{Key: Field("Name"), Direction: Asc}, m.Sorting())

	// Name is the only sortable column, so moving the cursor stays on it.
	m.Update(keyPress("]"))
	m.Update(keyPress("s"))
	require.Equal(t, Sorting{Key: Field("Name"), Direction: Desc}, m.Sorting())
}

func TestPaginationScenario(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(25), Options[record]{InitialPageSize: 10})
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(m.Visible()))
	require.Equal(t, "Page 1 of 3", m.PageLabel())
	require.False(t, m.CanPrev())
	require.True(t, m.CanNext())

	m.Update(keyPress("n"))
	require.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids(m.Visible()))
	require.Equal(t, "Page 2 of 3", m.PageLabel())
	require.Equal(t, "Showing 11 to 20 of 25 entries", m.Caption())

	m.LastPage()
	require.Equal(t, []int{21, 22, 23, 24, 25}, ids(m.Visible()))
	require.False(t, m.CanNext())

	m.NextPage()
	require.Equal(t, 3, m.CurrentPage())
	m.GoToPage(99)
	require.Equal(t, 3, m.CurrentPage())
	m.GoToPage(-2)
	require.Equal(t, 1, m.CurrentPage())
	m.PrevPage()
	require.Equal(t, 1, m.CurrentPage())
}

func TestSearchNarrowsAndResetsPage(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(25), Options[record]{InitialPageSize: 10, Searchable: true})
	m.NextPage()
	require.Equal(t, 2, m.CurrentPage())

	m.SetSearch("RECORD 1")
	require.Equal(t, 1, m.CurrentPage())
	require.Equal(t, "Page 1 of 1", m.PageLabel())
	require.Equal(t, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, ids(m.Visible()))

	m.SetSearch("record 2")
	require.Equal(t, []int{20, 21, 22, 23, 24, 25}, ids(m.Visible()))
	require.Equal(t, "Showing 1 to 6 of 6 entries (filtered from 25 total entries)", m.Caption())

	m.SetSearch("")
	require.Equal(t, "Showing 1 to 10 of 25 entries", m.Caption())
}

func TestSearchThreeMatches(t *testing.T) {
	t.Parallel()

	data := records(25)
	data[3].Name = "needle one"
	data[14].Name = "Needle two"
	data[22].Name = "NEEDLE three"

	m := newTable(t, data, Options[record]{InitialPageSize: 10, Searchable: true})
	m.NextPage()

	m.Update(keyPress("/"))
	require.True(t, m.Searching())
	for _, r := range "needle" {
		m.Update(keyPress(string(r)))
	}
	require.Equal(t, "needle", m.Search())
	require.Equal(t, 1, m.CurrentPage())
	require.Equal(t, "Page 1 of 1", m.PageLabel())
	require.Equal(t, []int{4, 15, 23}, ids(m.Visible()))
	require.Equal(t, "Showing 1 to 3 of 3 entries (filtered from 25 total entries)", m.Caption())

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.False(t, m.Searching())
	require.Equal(t, "needle", m.Search())
}

func TestResetOnChange(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(40), Options[record]{InitialPageSize: 5})

	m.GoToPage(4)
	m.SetPageSize(20)
	require.Equal(t, 1, m.CurrentPage())
	require.Equal(t, 20, m.PageSize())

	m.GoToPage(2)
	m.ToggleSort(Field("Name"))
	require.Equal(t, 1, m.CurrentPage())

	m.GoToPage(2)
	m.SetSearch("record")
	require.Equal(t, 1, m.CurrentPage())
}

func TestPageSizeKeysCyclePresets(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(60), Options[record]{})
	require.Equal(t, 10, m.PageSize())

	m.Update(keyPress("+"))
	require.Equal(t, 20, m.PageSize())
	m.Update(keyPress("-"))
	m.Update(keyPress("-"))
	m.Update(keyPress("-"))
	require.Equal(t, 5, m.PageSize())
	for range 10 {
		m.Update(keyPress("+"))
	}
	require.Equal(t, 50, m.PageSize())
	require.Equal(t, "Page 1 of 2", m.PageLabel())
}

func TestPageSizeKeysFromCustomSize(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(60), Options[record]{InitialPageSize: 25})
	m.Update(keyPress("+"))
	require.Equal(t, 30, m.PageSize())

	m = newTable(t, records(60), Options[record]{InitialPageSize: 25})
	m.Update(keyPress("-"))
	require.Equal(t, 20, m.PageSize())

	m = newTable(t, records(60), Options[record]{InitialPageSize: 3})
	m.Update(keyPress("-"))
	require.Equal(t, 3, m.PageSize())
	m.Update(keyPress("+"))
	require.Equal(t, 5, m.PageSize())
}

func TestHelpListsBindings(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(3), Options[record]{
		OnNewItem:    func() tea.Cmd { return nil },
		NewItemLabel: "New Unit",
	})
	m.keyMap.NewItem = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))

	var full []string
	for _, col := range m.FullHelp() {
		for _, b := range col {
			full = append(full, b.Help().Key+" "+b.Help().Desc)
		}
	}
	require.Contains(t, full, "+ more rows")
	require.Contains(t, full, "- fewer rows")
	require.Contains(t, full, "a New Unit")

	var short []string
	for _, b := range m.ShortHelp() {
		short = append(short, b.Help().Key+" "+b.Help().Desc)
	}
	require.Contains(t, short, "a New Unit")
	require.NotContains(t, short, "N New Unit")
}

func TestExpansionIndependence(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(12), Options[record]{
		ExpandedRender: func(r record) string { return "details of " + r.Name },
	})

	m.ToggleRow("3")
	require.True(t, m.IsExpanded("3"))
	for i := 1; i <= 12; i++ {
		if i == 3 {
			continue
		}
		require.False(t, m.IsExpanded(strconv.Itoa(i)))
	}

	m.ToggleRow("5")
	m.ToggleRow("3")
	require.False(t, m.IsExpanded("3"))
	require.True(t, m.IsExpanded("5"))

	// Expansion survives paging and sorting.
	m.NextPage()
	m.ToggleSort(Field("Name"))
	m.FirstPage()
	require.True(t, m.IsExpanded("5"))

	view := ansi.Strip(m.View())
	require.Contains(t, view, "details of record 05")
	require.NotContains(t, view, "details of record 03")
}

func TestToggleKeyExpandsSelectedRow(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(3), Options[record]{
		ExpandedRender: func(r record) string { return "more" },
	})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, m.IsExpanded("2"))
	require.False(t, m.IsExpanded("1"))

	item, ok := m.SelectedItem()
	require.True(t, ok)
	require.Equal(t, 2, item.ID)
}

func TestNewItemAndRowActions(t *testing.T) {
	t.Parallel()

	var created int
	var edited []int
	m := newTable(t, records(3), Options[record]{
		NewItemLabel: "New Record",
		OnNewItem: func() tea.Cmd {
			created++
			return nil
		},
		RowActions: []RowAction[record]{{
			Binding: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			Run: func(r record) tea.Cmd {
				edited = append(edited, r.ID)
				return nil
			},
		}},
	})

	m.Update(keyPress("N"))
	require.Equal(t, 1, created)
	m.Update(keyPress("e"))
	require.Equal(t, []int{1}, edited)

	m.SetLoading(true)
	m.Update(keyPress("N"))
	m.Update(keyPress("e"))
	require.Equal(t, 1, created)
	require.Equal(t, []int{1}, edited)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "New Record")
	require.Contains(t, view, loadingText)
	require.NotContains(t, view, "record 01")
}

func TestViewEmptyStates(t *testing.T) {
	t.Parallel()

	m := newTable(t, nil, Options[record]{EmptyMessage: "Nothing here"})
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Nothing here")
	require.NotContains(t, view, "Rows per page")
	require.Equal(t, "Showing 0 to 0 of 0 entries", m.Caption())

	m = newTable(t, records(2), Options[record]{Searchable: true})
	m.SetSearch("zzz")
	view = ansi.Strip(m.View())
	require.Contains(t, view, defaultEmptyMessage)
	require.Contains(t, view, "(filtered from 2 total entries)")
}

func TestViewFooter(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(25), Options[record]{})
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Rows per page")
	require.Contains(t, view, "Page 1 of 3")
	require.Contains(t, view, "«")

	m.SetWidth(50)
	view = ansi.Strip(m.View())
	require.NotContains(t, view, "«")
	require.Contains(t, view, "›")
}

func TestCellContent(t *testing.T) {
	t.Parallel()

	st := styles.DefaultStyles()
	r := record{ID: 0, Name: "Zed"}

	plain := New(&st, nil, Options[record]{ItemID: recordID})
	expandable := New(&st, nil, Options[record]{
		ItemID:         recordID,
		ExpandedRender: func(record) string { return "" },
	})

	expander := Column[record]{Key: ExpanderKey}
	require.Equal(t, collapsedIcon, expandable.cellContent(expander, r))
	expandable.ToggleRow("0")
	require.Equal(t, expandedIcon, expandable.cellContent(expander, r))
	require.Equal(t, "", plain.cellContent(expander, r))

	rendered := Column[record]{Key: Field("Name"), Render: func(r record) string { return "<" + r.Name + ">" }}
	require.Equal(t, "<Zed>", plain.cellContent(rendered, r))

	require.Equal(t, "", plain.cellContent(Column[record]{Key: ActionsKey}, r))

	id := Column[record]{Key: Field("ID"), Value: func(r record) any { return r.ID }}
	require.Equal(t, "", plain.cellContent(id, r))
	require.Equal(t, "4", plain.cellContent(id, record{ID: 4}))
}

func TestSetDataKeepsPageInRange(t *testing.T) {
	t.Parallel()

	m := newTable(t, records(25), Options[record]{})
	m.LastPage()
	require.Equal(t, 3, m.CurrentPage())

	m.SetData(records(15))
	require.Equal(t, 2, m.CurrentPage())

	m.SetData(records(18))
	require.Equal(t, 2, m.CurrentPage())
}
