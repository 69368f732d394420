package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category groups error codes by the layer that raises them.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryHook     Category = "hook"
	CategoryHost     Category = "host"
	CategoryConfig   Category = "config"
	CategoryScene    Category = "scene"
	CategorySnapshot Category = "snapshot"
	CategoryCLI      Category = "cli"
)

// Location is a position inside a scene or config file. Lines and columns
// are 1-based; a zero Column means the whole line.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// VangoError is a coded error with optional detail, location, hint and
// cause.
type VangoError struct {
	Code     string
	Category Category
	Message  string
	Detail   string

	// Location and Context point into the offending file. Context holds
	// the lines around Location.Line, starting at ContextStart.
	Location     *Location
	Context      []string
	ContextStart int

	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *VangoError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

func (e *VangoError) Unwrap() error {
	return e.Wrapped
}

// Is matches any VangoError with the same non-empty code, so sentinels
// built with New work with errors.Is.
func (e *VangoError) Is(target error) bool {
	t, ok := target.(*VangoError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithLocation records where the error occurred.
func (e *VangoError) WithLocation(file string, line, column int) *VangoError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSource attaches the lines of src surrounding the error location. It
// does nothing without a location.
func (e *VangoError) WithSource(src []byte) *VangoError {
	if e.Location == nil || e.Location.Line < 1 {
		return e
	}
	lines := strings.Split(strings.TrimRight(string(src), "\n"), "\n")
	first := max(e.Location.Line-contextRadius, 1)
	last := min(e.Location.Line+contextRadius, len(lines))
	if first > last {
		return e
	}
	e.Context = lines[first-1 : last]
	e.ContextStart = first
	return e
}

const contextRadius = 2

func (e *VangoError) WithSuggestion(s string) *VangoError {
	e.Suggestion = s
	return e
}

func (e *VangoError) WithDetail(d string) *VangoError {
	e.Detail = d
	return e
}

func (e *VangoError) WithDetailf(format string, args ...any) *VangoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

func (e *VangoError) Wrap(err error) *VangoError {
	e.Wrapped = err
	return e
}

// New creates an error from a registered code. Unregistered codes yield
// "Unknown error" rather than panicking.
func New(code string) *VangoError {
	t, ok := registry[code]
	if !ok {
		return &VangoError{Code: code, Message: "Unknown error"}
	}
	return &VangoError{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
		DocURL:   t.DocURL,
	}
}

// FromError returns the first VangoError in err's chain, or wraps err in a
// new error with code. A nil err returns nil.
func FromError(err error, code string) *VangoError {
	if err == nil {
		return nil
	}
	var ve *VangoError
	if stderrors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}
