package lsp

import "encoding/json"

// SelectionRangeParams holds parameters for textDocument/selectionRange.
// The client may ask for several positions in one request.
type SelectionRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Positions    []Position             `json:"positions"`
}

// SelectionRange is one step of the expand-selection pyramid: a range plus
// a link to the next-wider enclosing range.
type SelectionRange struct {
	Range  Range           `json:"range"`
	Parent *SelectionRange `json:"parent,omitempty"`
}

// ParseSelectionRangeRequest extracts the id/uri/positions of a
// textDocument/selectionRange request.
func ParseSelectionRangeRequest(data []byte) (id ID, uri string, positions []Position) {
	var req RequestMessage[SelectionRangeParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Positions
}

// BuildSelectionRangeResponse marshals a selection range list response,
// one entry per requested position.
func BuildSelectionRangeResponse(id ID, ranges []*SelectionRange) []byte {
	return marshalOrPanic(ResponseMessage[[]*SelectionRange]{JsonRpc: JSONRPCVersion, Id: id, Result: ranges})
}

// ChainSelectionRanges links a list of ranges ordered innermost-first into
// the nested parent-pointer shape the wire format wants. Returns nil for
// an empty pyramid.
func ChainSelectionRanges(ranges []Range) *SelectionRange {
	var parent *SelectionRange
	for i := len(ranges) - 1; i >= 0; i-- {
		parent = &SelectionRange{Range: ranges[i], Parent: parent}
	}
	return parent
}
