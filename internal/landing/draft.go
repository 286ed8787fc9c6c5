package landing

import (
	"errors"
	"strings"
	"unicode"
)

// ErrRemoveSpaces is raised when the URL or hash contains whitespace.
var ErrRemoveSpaces = errors.New("Remove spaces")

// Field identifies one input of the new-link form.
type Field int

const (
	FieldURL Field = iota
	FieldHash
)

func (f Field) String() string {
	switch f {
	case FieldURL:
		return "url"
	case FieldHash:
		return "hash"
	}
	return "unknown"
}

// DraftLink is the in-progress request. It is always replaced as a whole so
// the submit step reads a single snapshot.
type DraftLink struct {
	URL  string `json:"url"`
	Hash string `json:"hash"`
}

// FieldChanged is the only event that mutates a draft.
type FieldChanged struct {
	Field Field
	Value string
}

// Reduce applies ev to d and returns the new draft. Fields other than
// ev.Field are carried over from d.
func Reduce(d DraftLink, ev FieldChanged) DraftLink {
	switch ev.Field {
	case FieldURL:
		d.URL = ev.Value
	case FieldHash:
		d.Hash = ev.Value
	}
	return d
}

// IsEmpty reports whether neither field has been filled in.
func (d DraftLink) IsEmpty() bool {
	return d.URL == "" && d.Hash == ""
}

// Validate checks the draft before any request is made. An empty URL returns
// errEmptyURL, which callers treat as a silent no-op.
func (d DraftLink) Validate() error {
	if len(d.URL) == 0 {
		return errEmptyURL
	}
	if hasSpace(d.URL) || hasSpace(d.Hash) {
		return ErrRemoveSpaces
	}
	return nil
}

var errEmptyURL = errors.New("url is empty")

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
