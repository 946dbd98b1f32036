package ldf

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the lexical structure of layout description files: a small
// line-oriented format with # comments, keywords, numbers and identifiers.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "KwLayout", Pattern: `\blayout\b`},
	{Name: "KwDBU", Pattern: `\bdbu\b`},
	{Name: "KwLayer", Pattern: `\blayer\b`},
	{Name: "KwCell", Pattern: `\bcell\b`},
	{Name: "KwPort", Pattern: `\bport\b`},
	{Name: "KwBox", Pattern: `\bbox\b`},
	{Name: "KwPoly", Pattern: `\bpoly\b`},
	{Name: "KwInst", Pattern: `\binst\b`},
	{Name: "KwArray", Pattern: `\barray\b`},
	{Name: "KwAt", Pattern: `\bat\b`},
	{Name: "KwRot", Pattern: `\brot\b`},
	{Name: "KwMirror", Pattern: `\bmirror\b`},
	{Name: "KwWidth", Pattern: `\bwidth\b`},
	{Name: "KwStep", Pattern: `\bstep\b`},
	{Name: "KwCount", Pattern: `\bcount\b`},

	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},

	{Name: "Slash", Pattern: `/`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
})
