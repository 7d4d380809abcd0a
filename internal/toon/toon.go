// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of nested generic maps such as a project context.
package toon

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const indentUnit = "  "

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?$`)
	bareKey      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a nested map into TOON. Keys are emitted in sorted order.
// Supported leaf values are strings, booleans, integers, floats and nil;
// slices may be []any or []string.
func Encode(v map[string]any) string {
	var lines []string
	writeObject(&lines, v, 0)
	return strings.Join(lines, "\n")
}

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

func writeObject(lines *[]string, obj map[string]any, depth int) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		writeField(lines, encodeKey(k), obj[k], depth)
	}
}

func writeField(lines *[]string, key string, v any, depth int) {
	ind := indent(depth)
	switch v := v.(type) {
	case map[string]any:
		*lines = append(*lines, ind+key+":")
		writeObject(lines, v, depth+1)
	case []string:
		writeArray(lines, key, toAny(v), depth)
	case []any:
		writeArray(lines, key, v, depth)
	default:
		*lines = append(*lines, ind+key+": "+encodePrimitive(v))
	}
}

// writeArray picks the inline form for primitives, the tabular form for
// uniform objects of primitives, and a list otherwise.
func writeArray(lines *[]string, key string, arr []any, depth int) {
	ind := indent(depth)
	if cells, ok := primitives(arr); ok {
		line := fmt.Sprintf("%s%s[%d]:", ind, key, len(arr))
		if len(cells) > 0 {
			line += " " + strings.Join(cells, ",")
		}
		*lines = append(*lines, line)
		return
	}
	if columns, rows, ok := tabular(arr); ok {
		*lines = append(*lines, formatTabular(ind+key, columns, rows, indent(depth+1)))
		return
	}
	*lines = append(*lines, fmt.Sprintf("%s%s[%d]:", ind, key, len(arr)))
	for _, item := range arr {
		writeListItem(lines, item, depth+1)
	}
}

func writeListItem(lines *[]string, item any, depth int) {
	ind := indent(depth)
	switch item := item.(type) {
	case map[string]any:
		if len(item) == 0 {
			*lines = append(*lines, ind+"-")
			return
		}
		// The first field shares the hyphen line.
		var fields []string
		writeObject(&fields, item, depth+1)
		fields[0] = ind + "- " + strings.TrimPrefix(fields[0], indent(depth+1))
		*lines = append(*lines, fields...)
	case []string:
		writeListItem(lines, toAny(item), depth)
	case []any:
		var nested []string
		writeArray(&nested, "", item, depth)
		nested[0] = ind + "- " + strings.TrimPrefix(nested[0], ind)
		*lines = append(*lines, nested...)
	default:
		*lines = append(*lines, ind+"- "+encodePrimitive(item))
	}
}

func primitives(arr []any) ([]string, bool) {
	cells := make([]string, len(arr))
	for i, v := range arr {
		if !isPrimitive(v) {
			return nil, false
		}
		cells[i] = encodePrimitive(v)
	}
	return cells, true
}

// tabular reports whether arr holds objects sharing one key set with only
// primitive values.
func tabular(arr []any) (columns []string, rows [][]string, ok bool) {
	for i, item := range arr {
		obj, isObj := item.(map[string]any)
		if !isObj || len(obj) == 0 {
			return nil, nil, false
		}
		if i == 0 {
			for k := range obj {
				columns = append(columns, k)
			}
			slices.Sort(columns)
		}
		if len(obj) != len(columns) {
			return nil, nil, false
		}
		row := make([]string, len(columns))
		for j, c := range columns {
			v, present := obj[c]
			if !present || !isPrimitive(v) {
				return nil, nil, false
			}
			row[j] = encodePrimitive(v)
		}
		rows = append(rows, row)
	}
	return columns, rows, len(rows) > 0
}

func formatTabular(name string, columns []string, rows [][]string, rowIndent string) string {
	encoded := make([]string, len(columns))
	for i, c := range columns {
		encoded[i] = encodeKey(c)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(encoded, ","))
	for _, row := range rows {
		fmt.Fprintf(&b, "\n%s%s", rowIndent, strings.Join(row, ","))
	}
	return b.String()
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	}
	return false
}

func encodePrimitive(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return encodeValue(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "null"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return encodeValue(fmt.Sprint(v))
}

func encodeKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return quote(k)
}

// encodeValue renders a string, quoting it whenever it could be read back
// as another type or breaks the surrounding syntax.
func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return quote(value)
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
