package parser

import (
	"errors"
	"io"
)

// Parse scans and parses plam source text. Lexical and syntax errors are
// merged into a single ErrorList; the statements that did parse are returned
// alongside it.
func Parse(src string) ([]Stmt, error) {
	tokens, lexErr := Scan(src)
	stmts, parseErr := NewParser(tokens).Parse()

	var all ErrorList
	for _, err := range []error{lexErr, parseErr} {
		var list ErrorList
		if errors.As(err, &list) {
			all = append(all, list...)
		}
	}
	return stmts, all.Err()
}

// ParseReader consumes plam source from an io.Reader.
func ParseReader(r io.Reader) ([]Stmt, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}
