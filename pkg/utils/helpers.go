package utils

import (
	"strings"

	"github.com/aarondl/null/v8"
)

// NullString - пустая строка (после trim) превращается в NULL
func NullString(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func NullStringPtr(s *string) null.String {
	if s == nil {
		return null.String{}
	}
	return NullString(*s)
}
