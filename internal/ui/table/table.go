// Package table implements a searchable, sortable, paginated and optionally
// row-expandable table over an in-memory collection of records.
package table

import (
	"slices"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/proptic/proptic/internal/ui/styles"
	"golang.org/x/text/language"
)

const (
	defaultPageSize     = 10
	defaultNewItemLabel = "New Item"
	defaultEmptyMessage = "No data available"
)

// RowAction binds a key to an operation on the selected record.
type RowAction[T any] struct {
	Binding key.Binding
	Run     func(T) tea.Cmd
}

// Options configures a [Model].
type Options[T any] struct {
	Title           string
	InitialPageSize int
	Searchable      bool
	EmptyMessage    string

	// ItemID returns the identity of a record. It keys the expansion state
	// and must be unique within the displayed data.
	ItemID func(T) string

	// OnNewItem is activated by the new item key. The affordance is hidden
	// when nil and disabled while loading.
	OnNewItem    func() tea.Cmd
	NewItemLabel string

	// ExpandedRender enables row expansion and renders the detail row.
	ExpandedRender func(T) string

	// SearchText overrides the strings a record is searched by. It defaults
	// to [FieldStrings].
	SearchText func(T) []string

	RowActions []RowAction[T]
}

// Model is a table over records of type T. The data slice is owned by the
// caller and never modified.
type Model[T any] struct {
	t       *styles.Styles
	columns []Column[T]
	opts    Options[T]
	keyMap  KeyMap
	cmp     *Comparer

	data    []T
	loading bool

	sorting  Sorting
	page     int
	pageSize int
	term     string
	search   textinput.Model
	open     map[string]bool

	// cursor is the selected row within the current page.
	cursor int
	// header is the column index of the header cursor, -1 when no column
	// is sortable.
	header int
	width  int
}

// New creates a new table.
func New[T any](t *styles.Styles, columns []Column[T], opts Options[T]) *Model[T] {
	if opts.InitialPageSize < 1 {
		opts.InitialPageSize = defaultPageSize
	}
	if opts.NewItemLabel == "" {
		opts.NewItemLabel = defaultNewItemLabel
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = defaultEmptyMessage
	}
	if opts.ItemID == nil {
		opts.ItemID = func(T) string { return "" }
	}

	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = "/ "
	search.SetStyles(t.TextInput)

	m := &Model[T]{
		t:        t,
		columns:  columns,
		opts:     opts,
		keyMap:   DefaultKeyMap(),
		cmp:      NewComparer(language.English),
		page:     1,
		pageSize: opts.InitialPageSize,
		search:   search,
		open:     make(map[string]bool),
		header:   -1,
	}
	for i, c := range columns {
		if c.sortable() {
			m.header = i
			break
		}
	}
	return m
}

// SetData replaces the records. The page is kept when it still exists.
func (m *Model[T]) SetData(data []T) {
	m.data = data
	m.page = ClampPage(m.page, m.TotalPages())
	m.clampCursor()
}

// Data returns the records as supplied by the caller.
func (m *Model[T]) Data() []T { return m.data }

// SetLoading toggles the loading placeholder.
func (m *Model[T]) SetLoading(loading bool) { m.loading = loading }

// Loading reports whether the loading placeholder is shown.
func (m *Model[T]) Loading() bool { return m.loading }

// SetWidth sets the rendering width in cells.
func (m *Model[T]) SetWidth(width int) {
	m.width = width
	m.search.SetWidth(max(10, min(40, width/3)))
}

// Title returns the table title.
func (m *Model[T]) Title() string { return m.opts.Title }

// Filtered returns the records matching the search term.
func (m *Model[T]) Filtered() []T {
	return Filter(m.data, m.term, m.opts.SearchText)
}

// Sorted returns the filtered records in sort order.
func (m *Model[T]) Sorted() []T {
	filtered := m.Filtered()
	if !m.sorting.Active() {
		return filtered
	}
	col, ok := m.column(m.sorting.Key)
	if !ok {
		return filtered
	}
	return Sort(filtered, col.Value, m.sorting.Direction, m.cmp)
}

// Visible returns the records of the current page.
func (m *Model[T]) Visible() []T {
	return Paginate(m.Sorted(), m.page, m.pageSize)
}

// Sorting returns the sort state.
func (m *Model[T]) Sorting() Sorting { return m.sorting }

// ToggleSort activates the header of the column with the given key. Keys of
// columns that are not sortable are ignored.
func (m *Model[T]) ToggleSort(k ColumnKey) {
	col, ok := m.column(k)
	if !ok || !col.sortable() {
		return
	}
	m.sorting = m.sorting.Toggle(k)
	m.resetPage()
}

// Search returns the search term.
func (m *Model[T]) Search() string { return m.term }

// SetSearch sets the search term. A changed term returns to the first page.
func (m *Model[T]) SetSearch(term string) {
	if m.search.Value() != term {
		m.search.SetValue(term)
	}
	if term == m.term {
		return
	}
	m.term = term
	m.resetPage()
}

// Searching reports whether the search input has focus.
func (m *Model[T]) Searching() bool { return m.search.Focused() }

// PageSize returns the number of records per page.
func (m *Model[T]) PageSize() int { return m.pageSize }

// SetPageSize changes the page size and returns to the first page.
func (m *Model[T]) SetPageSize(size int) {
	if size < 1 {
		return
	}
	m.pageSize = size
	m.resetPage()
}

// CurrentPage returns the 1-based page number.
func (m *Model[T]) CurrentPage() int { return m.page }

// TotalPages returns the number of pages of the sorted records.
func (m *Model[T]) TotalPages() int {
	return TotalPages(len(m.Filtered()), m.pageSize)
}

// GoToPage moves to page n clamped into the existing pages.
func (m *Model[T]) GoToPage(n int) {
	m.page = ClampPage(n, m.TotalPages())
	m.cursor = 0
}

// CanPrev reports whether a previous page exists.
func (m *Model[T]) CanPrev() bool { return m.page > 1 }

// CanNext reports whether a next page exists.
func (m *Model[T]) CanNext() bool { return m.page < m.TotalPages() }

func (m *Model[T]) FirstPage() { m.GoToPage(1) }
func (m *Model[T]) PrevPage()  { m.GoToPage(m.page - 1) }
func (m *Model[T]) NextPage()  { m.GoToPage(m.page + 1) }
func (m *Model[T]) LastPage()  { m.GoToPage(m.TotalPages()) }

// ToggleRow flips the expansion state of the record with the given id.
func (m *Model[T]) ToggleRow(id string) {
	m.open[id] = !m.open[id]
}

// IsExpanded reports whether the record with the given id is expanded.
func (m *Model[T]) IsExpanded(id string) bool { return m.open[id] }

// Expandable reports whether rows can be expanded.
func (m *Model[T]) Expandable() bool { return m.opts.ExpandedRender != nil }

// SelectedItem returns the record under the row cursor.
func (m *Model[T]) SelectedItem() (T, bool) {
	visible := m.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		var zero T
		return zero, false
	}
	return visible[m.cursor], true
}

// Select moves the row cursor to the given row of the current page.
func (m *Model[T]) Select(row int) {
	m.cursor = row
	m.clampCursor()
}

// Update handles key presses and returns the command of any activated
// action.
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.PasteMsg:
		if m.search.Focused() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.SetSearch(m.search.Value())
			return cmd
		}
	case tea.KeyPressMsg:
		if m.search.Focused() {
			if key.Matches(msg, m.keyMap.LeaveSearch) {
				m.search.Blur()
				return nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.SetSearch(m.search.Value())
			return cmd
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model[T]) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	for _, action := range m.opts.RowActions {
		if !key.Matches(msg, action.Binding) {
			continue
		}
		if item, ok := m.SelectedItem(); ok && !m.loading {
			return action.Run(item)
		}
		return nil
	}

	km := m.keyMap
	switch {
	case key.Matches(msg, km.Search):
		if m.opts.Searchable {
			return m.search.Focus()
		}
	case key.Matches(msg, km.NewItem):
		if m.opts.OnNewItem != nil && !m.loading {
			return m.opts.OnNewItem()
		}
	case key.Matches(msg, km.Up):
		m.Select(m.cursor - 1)
	case key.Matches(msg, km.Down):
		m.Select(m.cursor + 1)
	case key.Matches(msg, km.Toggle):
		if item, ok := m.SelectedItem(); ok && m.Expandable() {
			m.ToggleRow(m.opts.ItemID(item))
		}
	case key.Matches(msg, km.PrevPage):
		if m.CanPrev() {
			m.PrevPage()
		}
	case key.Matches(msg, km.NextPage):
		if m.CanNext() {
			m.NextPage()
		}
	case key.Matches(msg, km.FirstPage):
		m.FirstPage()
	case key.Matches(msg, km.LastPage):
		m.LastPage()
	case key.Matches(msg, km.PrevColumn):
		m.moveHeader(-1)
	case key.Matches(msg, km.NextColumn):
		m.moveHeader(1)
	case key.Matches(msg, km.Sort):
		if m.header >= 0 {
			m.ToggleSort(m.columns[m.header].Key)
		}
	case key.Matches(msg, km.GrowPageSize):
		m.cyclePageSize(1)
	case key.Matches(msg, km.ShrinkPageSize):
		m.cyclePageSize(-1)
	}
	return nil
}

// ShortHelp implements [help.KeyMap].
func (m *Model[T]) ShortHelp() []key.Binding {
	if m.search.Focused() {
		return []key.Binding{m.keyMap.LeaveSearch}
	}
	binds := []key.Binding{m.keyMap.Up, m.keyMap.NextPage, m.keyMap.Sort}
	if m.opts.Searchable {
		binds = append(binds, m.keyMap.Search)
	}
	if m.opts.OnNewItem != nil {
		binds = append(binds, m.newItemBinding())
	}
	for _, a := range m.opts.RowActions {
		binds = append(binds, a.Binding)
	}
	return binds
}

// newItemBinding is the new item binding described by the button label.
func (m *Model[T]) newItemBinding() key.Binding {
	b := m.keyMap.NewItem
	b.SetHelp(b.Help().Key, m.opts.NewItemLabel)
	return b
}

// FullHelp implements [help.KeyMap].
func (m *Model[T]) FullHelp() [][]key.Binding {
	km := m.keyMap
	binds := [][]key.Binding{
		{km.Up, km.Down, km.Toggle},
		{km.PrevPage, km.NextPage, km.FirstPage, km.LastPage},
		{km.PrevColumn, km.NextColumn, km.Sort},
		{km.GrowPageSize, km.ShrinkPageSize},
	}
	var extra []key.Binding
	if m.opts.Searchable {
		extra = append(extra, km.Search)
	}
	if m.opts.OnNewItem != nil {
		extra = append(extra, m.newItemBinding())
	}
	for _, a := range m.opts.RowActions {
		extra = append(extra, a.Binding)
	}
	if len(extra) > 0 {
		binds = append(binds, extra)
	}
	return binds
}

func (m *Model[T]) column(k ColumnKey) (Column[T], bool) {
	for _, c := range m.columns {
		if c.Key == k {
			return c, true
		}
	}
	return Column[T]{}, false
}

func (m *Model[T]) resetPage() {
	m.page = 1
	m.cursor = 0
}

func (m *Model[T]) clampCursor() {
	n := len(m.Visible())
	m.cursor = max(0, min(m.cursor, n-1))
}

func (m *Model[T]) moveHeader(delta int) {
	if m.header < 0 {
		return
	}
	n := len(m.columns)
	for i := 1; i <= n; i++ {
		idx := ((m.header+delta*i)%n + n) % n
		if m.columns[idx].sortable() {
			m.header = idx
			return
		}
	}
}

// cyclePageSize steps to the next larger (delta > 0) or smaller preset.
// Sizes between presets step to the nearest preset in that direction.
func (m *Model[T]) cyclePageSize(delta int) {
	size := m.pageSize
	if delta > 0 {
		if i := slices.IndexFunc(PageSizes, func(n int) bool { return n > size }); i >= 0 {
			size = PageSizes[i]
		}
	} else {
		for _, n := range PageSizes {
			if n < m.pageSize {
				size = n
			}
		}
	}
	m.SetPageSize(size)
}
