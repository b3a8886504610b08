package utils

import (
	"io"

	"github.com/BurntSushi/toml"
)

// DecodeTOMLFile decodes the TOML file at path into v. It returns the keys
// of the file that v has no field for.
func DecodeTOMLFile(path string, v any) ([]string, error) {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return unknown, nil
}

// EncodeTOMLFile writes v to path as TOML.
func EncodeTOMLFile(path string, v any) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(v)
	})
}

// Table is a TOML table read without a schema, used to recover the values
// of a file that does not decode into its struct.
type Table map[string]any

// ReadTOMLTable reads the TOML file at path as a Table.
func ReadTOMLTable(path string) (Table, error) {
	t := Table{}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// Table returns the sub-table name, nil when missing.
func (t Table) Table(name string) Table {
	sub, _ := t[name].(map[string]any)
	return sub
}

// Int sets *dst to the integer at key. It reports false when the key is
// present with another type.
func (t Table) Int(key string, dst *int) bool {
	v, ok := t[key]
	if !ok {
		return true
	}
	n, ok := v.(int64)
	if ok {
		*dst = int(n)
	}
	return ok
}

// String is Int for strings.
func (t Table) String(key string, dst *string) bool {
	v, ok := t[key]
	if !ok {
		return true
	}
	s, ok := v.(string)
	if ok {
		*dst = s
	}
	return ok
}

// Bool is Int for booleans.
func (t Table) Bool(key string, dst *bool) bool {
	v, ok := t[key]
	if !ok {
		return true
	}
	b, ok := v.(bool)
	if ok {
		*dst = b
	}
	return ok
}
