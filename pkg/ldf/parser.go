// Package ldf parses layout description files, a small text format for
// layers, cells, ports, shapes and instances, and loads them into a layout.
package ldf

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses layout description files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds a parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("ldf: building parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a description from a reader.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	f, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("ldf: %w", err)
	}
	return f, nil
}

// ParseString parses a description from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("ldf: %w", err)
	}
	return f, nil
}

// ParseFile parses a description from a file path.
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ldf: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}
