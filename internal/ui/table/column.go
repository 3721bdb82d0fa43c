package table

// keyKind distinguishes real record fields from the virtual column keys.
type keyKind uint8

const (
	fieldKind keyKind = iota + 1
	expanderKind
	actionsKind
)

// ColumnKey identifies a column. It is either a named record field or one of
// the virtual keys [ExpanderKey] and [ActionsKey], which never map to a field.
// The zero value means "no column" and is used for an unset sort.
type ColumnKey struct {
	kind keyKind
	name string
}

var (
	// ExpanderKey is the virtual key of the row expansion toggle column.
	ExpanderKey = ColumnKey{kind: expanderKind, name: "expander"}
	// ActionsKey is the virtual key of the per-row actions column.
	ActionsKey = ColumnKey{kind: actionsKind, name: "actions"}
)

// Field returns the key of the record field with the given name.
func Field(name string) ColumnKey {
	return ColumnKey{kind: fieldKind, name: name}
}

// Name returns the field name, or the virtual key name.
func (k ColumnKey) Name() string { return k.name }

// IsZero reports whether the key is unset.
func (k ColumnKey) IsZero() bool { return k.kind == 0 }

// IsVirtual reports whether the key has no backing field.
func (k ColumnKey) IsVirtual() bool {
	return k.kind == expanderKind || k.kind == actionsKind
}

func (k ColumnKey) String() string { return k.name }

// Column describes how one table column is labeled, sourced and rendered.
type Column[T any] struct {
	Key   ColumnKey
	Label string
	// Sortable makes the header activate sorting. Ignored for virtual keys.
	Sortable bool
	// Value reads the field off a record. It is used for sorting and for the
	// default cell content.
	Value func(T) any
	// Render overrides the default cell content.
	Render func(T) string
	// Width is a rendering hint in cells. Zero shares the remaining width.
	Width int
}

func (c Column[T]) sortable() bool {
	return c.Sortable && !c.Key.IsVirtual() && c.Value != nil
}
