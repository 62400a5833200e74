package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/javafront/java/parser"
)

// ASTJSONEncoder writes a syntax tree as indented JSON.
type ASTJSONEncoder struct {
	writer
	node *parser.Node
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{writer: writer{w}}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	e.node = node
	return e.write(e.MarshalText())
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	if e.node == nil {
		return []byte("null\n"), nil
	}
	text, err := json.MarshalIndent(e.node, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
