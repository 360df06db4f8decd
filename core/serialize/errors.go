package serialize

import (
	"errors"
	"fmt"
)

// ErrRawChild is returned when a raw-text element contains an element.
// Raw elements are leaf text containers, so this means the tree is corrupt.
var ErrRawChild = errors.New("raw element has an element child")

// RawChildError names the offending raw element and its element child.
type RawChildError struct {
	Tag   string
	Child string
}

func (e *RawChildError) Error() string {
	return fmt.Sprintf("<%s> must contain only text, found element <%s>", e.Tag, e.Child)
}

func (e *RawChildError) Unwrap() error { return ErrRawChild }
