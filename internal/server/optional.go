package server

import (
	"bytes"
	"encoding/json"

	"tasktracker/internal/models"
)

// optional records whether a JSON field was present and whether it was null.
// Absent fields leave Set false.
type optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ptr returns the supplied value, or nil when the field was absent or null.
func (o optional[T]) ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// rejectNull fails with a validation error when the field was sent as null.
func (o optional[T]) rejectNull(field string) error {
	if o.Set && o.Null {
		return models.NewValidationError(field, "must not be null")
	}
	return nil
}
