package model

import "fmt"

// ParseError reports a malformed persisted record. It aborts the whole load.
type ParseError struct {
	File  string
	Line  int // 1-based, header is line 1; 0 when unknown
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "record"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field %s=%q: %v", loc, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
