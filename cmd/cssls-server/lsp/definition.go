package lsp

import "encoding/json"

// DefinitionParams holds parameters for textDocument/definition.
type DefinitionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// ParseDefinitionRequest extracts the id/uri/position of a
// textDocument/definition request.
func ParseDefinitionRequest(data []byte) (id ID, uri string, position Position) {
	var req RequestMessage[DefinitionParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Position
}

// BuildDefinitionResponse marshals a single-location definition result, or
// a null result when ok is false.
func BuildDefinitionResponse(id ID, loc Location, ok bool) []byte {
	if !ok {
		return marshalOrPanic(ResponseMessage[any]{JsonRpc: JSONRPCVersion, Id: id})
	}
	return marshalOrPanic(ResponseMessage[Location]{JsonRpc: JSONRPCVersion, Id: id, Result: loc})
}

// ReferenceContext controls whether the defining occurrence is included.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams holds parameters for textDocument/references.
type ReferenceParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	Context      ReferenceContext       `json:"context"`
}

// ParseReferencesRequest extracts the id/uri/position/includeDeclaration
// of a textDocument/references request.
func ParseReferencesRequest(data []byte) (id ID, uri string, position Position, includeDeclaration bool) {
	var req RequestMessage[ReferenceParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Position, req.Params.Context.IncludeDeclaration
}

// BuildReferencesResponse marshals a list of reference locations.
func BuildReferencesResponse(id ID, locs []Location) []byte {
	return marshalOrPanic(ResponseMessage[[]Location]{JsonRpc: JSONRPCVersion, Id: id, Result: locs})
}

// ParseDocumentHighlightRequest reuses the same params shape as
// textDocument/definition — both take only a text document and a
// position.
func ParseDocumentHighlightRequest(data []byte) (id ID, uri string, position Position) {
	return ParseDefinitionRequest(data)
}

// DocumentHighlight represents one highlighted occurrence in the document.
type DocumentHighlight struct {
	Range Range `json:"range"`
	Kind  int   `json:"kind,omitempty"`
}

// BuildDocumentHighlightResponse marshals a list of document highlights.
func BuildDocumentHighlightResponse(id ID, highlights []DocumentHighlight) []byte {
	return marshalOrPanic(ResponseMessage[[]DocumentHighlight]{JsonRpc: JSONRPCVersion, Id: id, Result: highlights})
}
