package output

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"
)

// TableFormatter formats data as an aligned text table.
//
// Struct fields may carry a `table` tag: "-" hides the field, "wide" shows
// it only in wide mode, and any other first element overrides the header.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table.
// Supports: Table, []T (slice of structs), map[string]V, struct.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := toTable(data, f.Wide)
	if err != nil {
		// Fallback to JSON for complex types
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

// column is one rendered struct field.
type column struct {
	header string
	index  int
}

// columns lists the visible fields of struct type t.
func columns(t reflect.Type, wide bool) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := strings.Split(field.Tag.Get("table"), ",")
		if tag[0] == "-" {
			continue
		}
		if !wide && containsWord(tag, "wide") {
			continue
		}

		header := tag[0]
		if header == "" || header == "wide" {
			header = strings.ToUpper(toSnakeCase(fieldName(field)))
		}
		cols = append(cols, column{header: header, index: i})
	}
	return cols
}

func containsWord(words []string, w string) bool {
	for _, s := range words {
		if strings.TrimSpace(s) == w {
			return true
		}
	}
	return false
}

// fieldName prefers the JSON name of field.
func fieldName(field reflect.StructField) string {
	if name, _, _ := strings.Cut(field.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return field.Name
}

// toTable converts various data types to a Table.
func toTable(data any, wide bool) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v, wide)
	case reflect.Map:
		return mapToTable(v), nil
	case reflect.Struct:
		return structToTable(v, wide), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// sliceToTable renders one row per element.
func sliceToTable(v reflect.Value, wide bool) (*Table, error) {
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		table := &Table{Headers: []string{"VALUE"}}
		for i := 0; i < v.Len(); i++ {
			table.AddRow(formatValue(v.Index(i)))
		}
		return table, nil
	}

	cols := columns(elemType, wide)
	table := &Table{}
	for _, c := range cols {
		table.Headers = append(table.Headers, c.header)
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = formatValue(elem.Field(c.index))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// mapToTable converts a map to a key-value table.
func mapToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(formatValue(iter.Key()), formatValue(iter.Value()))
	}
	return table
}

// structToTable converts a single struct to a field-value table.
func structToTable(v reflect.Value, wide bool) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, c := range columns(v.Type(), wide) {
		table.AddRow(fieldName(v.Type().Field(c.index)), formatValue(v.Field(c.index)))
	}
	return table
}

var timeType = reflect.TypeOf(time.Time{})

// formatValue formats a reflect.Value for display.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	}

	// Identifiers and amounts render in text form.
	if v.CanInterface() {
		if tm, ok := v.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil || len(text) == 0 {
				return "-"
			}
			return string(text)
		}
	}

	switch v.Kind() {
	case reflect.String:
		if s := v.String(); s != "" {
			return s
		}
		return "-"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.2f", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// toSnakeCase converts CamelCase to Camel_Case; callers upper-case it.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
