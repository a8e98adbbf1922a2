package helper

import (
	"sort"
	"strings"

	"schoolku_backend/internals/helpers/apperror"
)

// BulkItemError kegagalan satu item pada operasi bulk.
type BulkItemError struct {
	Index   int    `json:"index"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

// BulkResult: item yang berhasil + daftar kegagalan per item.
type BulkResult[T any] struct {
	Created []T             `json:"created"`
	Failed  []BulkItemError `json:"failed"`
}

func NewBulkResult[T any](capacity int) *BulkResult[T] {
	return &BulkResult[T]{Created: make([]T, 0, capacity), Failed: []BulkItemError{}}
}

// Fail mencatat error item; pesan validasi digabung per field.
func (r *BulkResult[T]) Fail(index int, key string, err error) {
	r.Failed = append(r.Failed, BulkItemError{Index: index, Key: key, Message: BulkMessage(err)})
}

func BulkMessage(err error) string {
	ae, ok := apperror.As(err)
	if !ok {
		return "Failed to save record"
	}
	if len(ae.Fields) == 0 {
		return ae.Message
	}
	fields := make([]string, 0, len(ae.Fields))
	for f := range ae.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, strings.Join(ae.Fields[f], "; "))
	}
	return strings.Join(parts, "; ")
}
