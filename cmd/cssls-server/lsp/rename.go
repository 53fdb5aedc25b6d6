package lsp

import "encoding/json"

// RenameParams holds parameters for textDocument/rename.
type RenameParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	NewName      string                 `json:"newName"`
}

// TextEdit represents a text edit.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit represents changes to workspace resources, keyed by URI.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// ParseRenameRequest extracts the id/uri/position/newName of a
// textDocument/rename request.
func ParseRenameRequest(data []byte) (id ID, uri string, position Position, newName string) {
	var req RequestMessage[RenameParams]
	_ = json.Unmarshal(data, &req)
	return req.Id, req.Params.TextDocument.Uri, req.Params.Position, req.Params.NewName
}

// BuildRenameResponse marshals a workspace edit response, or an error
// response when renameErr is non-nil (cssrename.Plan fails when the cursor
// doesn't sit on a renameable symbol).
func BuildRenameResponse(id ID, uri string, edits []TextEdit, renameErr error) []byte {
	if renameErr != nil {
		return marshalOrPanic(ResponseMessage[any]{
			JsonRpc: JSONRPCVersion,
			Id:      id,
			Error:   &ResponseError{Code: ErrorInvalidRequest, Message: renameErr.Error()},
		})
	}
	return marshalOrPanic(ResponseMessage[WorkspaceEdit]{
		JsonRpc: JSONRPCVersion,
		Id:      id,
		Result:  WorkspaceEdit{Changes: map[string][]TextEdit{uri: edits}},
	})
}
