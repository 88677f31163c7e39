package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Category describes why a config document could not be loaded.
type Category uint8

const (
	// CategoryIO means the bytes could not be read; retrying may help.
	CategoryIO Category = iota
	// CategorySyntax means the document is not valid JSON.
	CategorySyntax
	// CategoryData means the JSON is well formed but has the wrong shape
	// or an invalid value.
	CategoryData
	// CategoryEOF means the document ended before a value was complete.
	CategoryEOF
)

func (c Category) String() string {
	switch c {
	case CategoryIO:
		return "io"
	case CategorySyntax:
		return "syntax"
	case CategoryData:
		return "data"
	case CategoryEOF:
		return "eof"
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseError is returned when a config document could not be read or parsed.
type ParseError struct {
	// Path is the file being loaded, empty when decoding a bare reader.
	Path     string
	Category Category
	Err      error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config: %s error in %s: %v", e.Category, e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s error: %v", e.Category, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Classify reports the failure category.
func (e *ParseError) Classify() Category { return e.Category }

// categorize maps an encoding/json decode error to a Category. The decoder
// returns reader failures unchanged, so anything it did not produce itself
// counts as I/O.
func categorize(err error) Category {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		invalid   *json.InvalidUnmarshalError
	)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return CategoryEOF
	case errors.As(err, &syntaxErr):
		if syntaxErr.Error() == "unexpected end of JSON input" {
			return CategoryEOF
		}
		return CategorySyntax
	case errors.As(err, &typeErr), errors.As(err, &invalid):
		return CategoryData
	}
	return CategoryIO
}
