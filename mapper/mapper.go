// Package mapper provides ready-made result mappers for dbcontext.Map and
// dbcontext.ExecuteMapped. Struct mapping follows sqlx conventions: columns
// match `db` tags, else the lower-cased field name.
package mapper

import (
	"database/sql"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Structs scans every row into a T. T may also be a scannable scalar when
// the query returns a single column.
func Structs[T any](rows *sql.Rows) ([]T, error) {
	var out []T
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// First returns the first row as a T, or sql.ErrNoRows.
func First[T any](rows *sql.Rows) (T, error) {
	var zero T
	all, err := Structs[T](rows)
	if err != nil {
		return zero, err
	}
	if len(all) == 0 {
		return zero, sql.ErrNoRows
	}
	return all[0], nil
}

// Scalar returns the first column of the first row, or sql.ErrNoRows.
func Scalar[T any](rows *sql.Rows) (T, error) {
	var v T
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return v, err
		}
		return v, sql.ErrNoRows
	}
	cols, err := rows.Columns()
	if err != nil {
		return v, err
	}
	dest := make([]any, len(cols))
	dest[0] = &v
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return v, err
	}
	return v, nil
}

// Maps returns each row as a column-name keyed map.
func Maps(rows *sql.Rows) ([]map[string]any, error) {
	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := sqlx.MapScan(rows, row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Value reads col from a row produced by Maps as a T. NULL, a missing column
// or a value that cannot become a T without loss yields the zero value:
// numbers out of the target's range, fractional numbers read as integers and
// unparseable text all count as lossy. Text (driver byte slices included) is
// parsed for numeric and bool targets.
func Value[T any](row map[string]any, col string) T {
	var zero T
	v, ok := row[col]
	if !ok || v == nil {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}
	target := reflect.TypeOf(zero)
	if target == nil {
		return zero
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	out := reflect.New(target).Elem()
	if !convert(reflect.ValueOf(v), out) {
		return zero
	}
	return out.Interface().(T)
}

func convert(src, dst reflect.Value) bool {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt(src)
		if !ok || dst.OverflowInt(n) {
			return false
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := toUint(src)
		if !ok || dst.OverflowUint(n) {
			return false
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(src)
		if !ok || dst.OverflowFloat(f) {
			return false
		}
		dst.SetFloat(f)
	case reflect.Bool:
		switch src.Kind() {
		case reflect.Bool:
			dst.SetBool(src.Bool())
		case reflect.String:
			b, err := strconv.ParseBool(strings.TrimSpace(src.String()))
			if err != nil {
				return false
			}
			dst.SetBool(b)
		default:
			return false
		}
	case reflect.String:
		// numbers are not turned into runes
		if src.Kind() != reflect.String {
			return false
		}
		dst.SetString(src.String())
	default:
		if !src.Type().ConvertibleTo(dst.Type()) {
			return false
		}
		dst.Set(src.Convert(dst.Type()))
	}
	return true
}

func toInt(src reflect.Value) (int64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := src.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := src.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case reflect.String:
		n, err := strconv.ParseInt(strings.TrimSpace(src.String()), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func toUint(src reflect.Value) (uint64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := src.Int()
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return src.Uint(), true
	case reflect.Float32, reflect.Float64:
		f := src.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	case reflect.String:
		n, err := strconv.ParseUint(strings.TrimSpace(src.String()), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func toFloat(src reflect.Value) (float64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(src.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(src.Uint()), true
	case reflect.Float32, reflect.Float64:
		return src.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(src.String()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
