// AngelaMos | 2026
// jsonb.go

package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn maps any JSON-serializable value onto a jsonb column so
// sqlx can scan it like a scalar.
type JSONColumn[T any] struct {
	Val T
}

func NewJSONColumn[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{Val: v}
}

func (c JSONColumn[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(c.Val)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return data, nil
}

func (c *JSONColumn[T]) Scan(src any) error {
	if src == nil {
		var zero T
		c.Val = zero
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}

	if err := json.Unmarshal(data, &c.Val); err != nil {
		return fmt.Errorf("scan jsonb: %w", err)
	}
	return nil
}

func (c JSONColumn[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Val)
}

func (c *JSONColumn[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.Val)
}
