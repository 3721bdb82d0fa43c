package table

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction of the active column.
type Direction uint8

const (
	Unsorted Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return ""
	}
}

// Sorting is the sort state of a table. The zero value leaves records in
// their original order.
type Sorting struct {
	Key       ColumnKey
	Direction Direction
}

// Active reports whether a sort is applied.
func (s Sorting) Active() bool {
	return !s.Key.IsZero() && s.Direction != Unsorted
}

// Toggle returns the state after activating the header of key: a new column
// starts ascending, the active column flips direction.
func (s Sorting) Toggle(key ColumnKey) Sorting {
	if s.Key == key && s.Direction == Asc {
		return Sorting{Key: key, Direction: Desc}
	}
	return Sorting{Key: key, Direction: Asc}
}

// PageSizes are the page sizes a user can pick.
var PageSizes = []int{5, 10, 20, 30, 50}

// Comparer orders cell values. Strings use locale collation, numbers compare
// numerically and anything else is compared by its string form. A Comparer
// is not safe for concurrent use.
type Comparer struct {
	col *collate.Collator
}

// NewComparer returns a [Comparer] collating for the given language.
func NewComparer(tag language.Tag) *Comparer {
	return &Comparer{col: collate.New(tag)}
}

// Compare returns -1, 0 or +1. Null values are smaller than anything else.
func (c *Comparer) Compare(a, b any) int {
	an, bn := isNull(a), isNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}

	a, b = deref(a), deref(b)
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return c.col.CompareString(as, bs)
		}
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	return c.col.CompareString(fmt.Sprint(a), fmt.Sprint(b))
}

// Filter keeps the records where some string in text(record) contains term,
// ignoring case. An empty term returns data unchanged.
func Filter[T any](data []T, term string, text func(T) []string) []T {
	if term == "" {
		return data
	}
	if text == nil {
		text = FieldStrings[T]
	}
	term = strings.ToLower(term)
	out := make([]T, 0, len(data))
	for _, item := range data {
		for _, s := range text(item) {
			if strings.Contains(strings.ToLower(s), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy of data ordered by value. data itself is
// never modified.
func Sort[T any](data []T, value func(T) any, dir Direction, c *Comparer) []T {
	if value == nil || dir == Unsorted {
		return data
	}
	out := slices.Clone(data)
	slices.SortStableFunc(out, func(a, b T) int {
		r := c.Compare(value(a), value(b))
		if dir == Desc {
			return -r
		}
		return r
	})
	return out
}

// TotalPages returns ceil(n/size). It is 0 when n is 0.
func TotalPages(n, size int) int {
	if size < 1 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage clamps page into [1, total]. A total of 0 yields page 1.
func ClampPage(page, total int) int {
	return max(1, min(page, total))
}

// Paginate returns the slice of data shown on the 1-based page.
func Paginate[T any](data []T, page, size int) []T {
	if size < 1 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(data) {
		return nil
	}
	end := min(start+size, len(data))
	return data[start:end]
}

// FieldStrings returns the string form of every exported field of a struct
// record, one level deep. Nested values are formatted with fmt and nil
// pointers yield nothing. Non-struct records yield their own string form,
// maps yield one string per value.
func FieldStrings[T any](item T) []string {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		out := make([]string, 0, v.NumField())
		for i := range v.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			if s, ok := stringOf(v.Field(i)); ok {
				out = append(out, s)
			}
		}
		return out
	case reflect.Map:
		out := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			if s, ok := stringOf(iter.Value()); ok {
				out = append(out, s)
			}
		}
		return out
	case reflect.Invalid:
		return nil
	default:
		return []string{fmt.Sprint(v.Interface())}
	}
}

// Display returns the default cell text of a field value. Null and zero
// values render empty.
func Display(v any) string {
	if isNull(v) {
		return ""
	}
	rv := reflect.ValueOf(deref(v))
	if rv.IsZero() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

func stringOf(v reflect.Value) (string, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	return fmt.Sprint(v.Interface()), true
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
