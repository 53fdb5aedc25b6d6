package lsp

import "encoding/json"

// CompletionParams holds parameters for textDocument/completion.
type CompletionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CompletionItem represents a completion suggestion.
type CompletionItem struct {
	Label      string `json:"label"`
	Kind       int    `json:"kind,omitempty"`
	Detail     string `json:"detail,omitempty"`
	InsertText string `json:"insertText,omitempty"`
}

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// ParseCompletionRequest extracts the id/uri/position of a
// textDocument/completion request.
func ParseCompletionRequest(data []byte) (id ID, uri string, position Position) {
	var req RequestMessage[CompletionParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Position
}

// BuildCompletionResponse marshals a completion list response.
func BuildCompletionResponse(id ID, items []CompletionItem) []byte {
	return marshalOrPanic(ResponseMessage[CompletionList]{
		JsonRpc: JSONRPCVersion,
		Id:      id,
		Result:  CompletionList{Items: items},
	})
}
