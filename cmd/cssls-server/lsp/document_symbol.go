package lsp

import "encoding/json"

// DocumentSymbolParams holds parameters for textDocument/documentSymbol.
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// SymbolKind identifies the kind of a symbol, the LSP SymbolKind enum.
type SymbolKind int

// DocumentSymbol represents a symbol in a document, nestable.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           SymbolKind       `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// ParseDocumentSymbolRequest extracts the id/uri of a
// textDocument/documentSymbol request.
func ParseDocumentSymbolRequest(data []byte) (id ID, uri string) {
	var req RequestMessage[DocumentSymbolParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri
}

// BuildDocumentSymbolResponse marshals a document outline response.
func BuildDocumentSymbolResponse(id ID, symbols []DocumentSymbol) []byte {
	return marshalOrPanic(ResponseMessage[[]DocumentSymbol]{JsonRpc: JSONRPCVersion, Id: id, Result: symbols})
}

// DocumentLinkParams holds parameters for textDocument/documentLink.
type DocumentLinkParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DocumentLink represents a link in a document.
type DocumentLink struct {
	Range  Range  `json:"range"`
	Target string `json:"target,omitempty"`
}

// ParseDocumentLinkRequest extracts the id/uri of a
// textDocument/documentLink request.
func ParseDocumentLinkRequest(data []byte) (id ID, uri string) {
	var req RequestMessage[DocumentLinkParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri
}

// BuildDocumentLinkResponse marshals a document link list response.
func BuildDocumentLinkResponse(id ID, links []DocumentLink) []byte {
	return marshalOrPanic(ResponseMessage[[]DocumentLink]{JsonRpc: JSONRPCVersion, Id: id, Result: links})
}

// FoldingRangeParams holds parameters for textDocument/foldingRange.
type FoldingRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// FoldingRange represents one foldable region, in 0-based lines.
type FoldingRange struct {
	StartLine uint   `json:"startLine"`
	EndLine   uint   `json:"endLine"`
	Kind      string `json:"kind,omitempty"`
}

// ParseFoldingRangeRequest extracts the id/uri of a
// textDocument/foldingRange request.
func ParseFoldingRangeRequest(data []byte) (id ID, uri string) {
	var req RequestMessage[FoldingRangeParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri
}

// BuildFoldingRangeResponse marshals a folding range list response.
func BuildFoldingRangeResponse(id ID, ranges []FoldingRange) []byte {
	return marshalOrPanic(ResponseMessage[[]FoldingRange]{JsonRpc: JSONRPCVersion, Id: id, Result: ranges})
}
