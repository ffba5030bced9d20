// Package transport implements the request/response envelope described in
// spec.md §6 "External interfaces": commands carry a JSON-like record of
// heterogeneous parameters, and every response is shaped
// {class, value, notifications}. Parsing reads straight out of the inbound
// JSON via gjson instead of binding each command to its own Go struct,
// since position, refactor-range, and config-path params don't share a
// schema.
package transport

import (
	"fmt"

	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/tidwall/gjson"
)

// Request is one decoded command (spec.md §6 "Request shape"). spec.md
// describes the command's own name and the "action" it performs as the
// same thing (Scenario B/C name the unqualify operation as "action
// unqualify", exactly the command name dispatch.go already switches on),
// so Command alone carries both.
type Request struct {
	Command  string
	Doc      string
	Text     string
	Pos      lexer.Position
	OpenPath string
}

// ParseRequest decodes a raw JSON request body.
func ParseRequest(body []byte) (*Request, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("request is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	command := root.Get("command").String()
	if command == "" {
		return nil, fmt.Errorf("request missing \"command\"")
	}

	return &Request{
		Command:  command,
		Doc:      root.Get("doc").String(),
		Text:     root.Get("text").String(),
		OpenPath: root.Get("open_path").String(),
		Pos: lexer.Position{
			Line:   int(root.Get("line").Int()),
			Column: int(root.Get("col").Int()),
			Offset: int(root.Get("offset").Int()),
		},
	}, nil
}
