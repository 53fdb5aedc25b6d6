package lsp

import "encoding/json"

// HoverParams holds parameters for textDocument/hover.
type HoverParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// MarkupContent represents documentation content.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
}

// ParseHoverRequest extracts the id/uri/position a textDocument/hover
// request carries; the caller resolves the uri to a parsed document and
// runs csshover.At itself (this package stays ignorant of internal/css*).
func ParseHoverRequest(data []byte) (id ID, uri string, position Position) {
	var req RequestMessage[HoverParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Position
}

// BuildHoverResponse marshals a hover result, or a null result when ok is
// false (LSP's documented way to say "nothing to show here").
func BuildHoverResponse(id ID, contents string, ok bool) []byte {
	if !ok {
		return marshalOrPanic(ResponseMessage[any]{JsonRpc: JSONRPCVersion, Id: id})
	}
	return marshalOrPanic(ResponseMessage[Hover]{
		JsonRpc: JSONRPCVersion,
		Id:      id,
		Result:  Hover{Contents: MarkupContent{Kind: "markdown", Value: contents}},
	})
}
