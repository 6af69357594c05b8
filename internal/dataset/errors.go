package dataset

import "fmt"

// ParseError means the upload is not valid structured data.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid file format: %s", e.Name)
	}
	return fmt.Sprintf("invalid file format: %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedFormatError is returned for archive uploads, which are never unpacked.
type UnsupportedFormatError struct {
	Name   string
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported input format %s: %s", e.Format, e.Name)
}
