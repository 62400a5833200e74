// Package format renders front-end data for the command line: syntax trees
// and public tokens as JSON or lines, and class symbols as JSON or lines.
package format

import (
	"encoding"
	"io"
)

// Encoder writes one value in some textual form.
type Encoder[T any] interface {
	encoding.TextMarshaler
	Encode(v T) error
}

type writer struct {
	w io.Writer
}

func (w writer) write(text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.w.Write(text)
	return err
}
