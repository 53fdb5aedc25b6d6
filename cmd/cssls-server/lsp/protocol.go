// Package lsp implements the JSON-RPC message shapes and stdio framing for
// the CSS/SCSS/LESS language server: generic RequestMessage[T]/
// ResponseMessage[T]/NotificationMessage[T] envelopes, a
// custom-(un)marshaled numeric ID, and one file per LSP capability.
package lsp

import (
	"encoding/json"
	"errors"
	"strconv"
)

// LSP protocol constants.
const (
	JSONRPCVersion = "2.0"

	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4

	TextDocumentSyncFull = 1

	ErrorInvalidRequest = -32600
)

// LSP method names.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodHover              = "textDocument/hover"
	MethodCompletion         = "textDocument/completion"
	MethodDefinition         = "textDocument/definition"
	MethodReferences         = "textDocument/references"
	MethodDocumentHighlight  = "textDocument/documentHighlight"
	MethodDocumentSymbol     = "textDocument/documentSymbol"
	MethodDocumentLink       = "textDocument/documentLink"
	MethodFoldingRange       = "textDocument/foldingRange"
	MethodSelectionRange     = "textDocument/selectionRange"
	MethodRename             = "textDocument/rename"
)

// LSP header constants, the Content-Length framing every stdio transport
// uses (base LSP spec, independent of any one editor).
const (
	ContentLengthHeader = "Content-Length"
	HeaderDelimiter     = "\r\n\r\n"
	LineDelimiter       = "\r\n"
)

// ID represents a JSON-RPC request ID that can be either a string or
// number on the wire; internally it is always stored as a number.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	length := len(data)
	if length >= 2 && data[0] == '"' && data[length-1] == '"' {
		data = data[1 : length-1]
	}
	number, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.New("'ID' expected either a string or an integer")
	}
	*id = ID(number)
	return nil
}

func (id *ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(*id))), nil
}

// RequestMessage represents a JSON-RPC request.
type RequestMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Id      ID     `json:"id"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

// ResponseMessage represents a JSON-RPC response.
type ResponseMessage[T any] struct {
	JsonRpc string         `json:"jsonrpc"`
	Id      ID             `json:"id"`
	Result  T              `json:"result"`
	Error   *ResponseError `json:"error,omitempty"`
}

// ResponseError represents a JSON-RPC error.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NotificationMessage represents a JSON-RPC notification (no response).
type NotificationMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

func marshalOrPanic(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic("cssls: marshal failed: " + err.Error())
	}
	return b
}

// Position represents a position in a text document. LSP positions are
// 0-based on both axes; the column is a UTF-16 code unit count.
type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

// Range represents a range in a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentItem represents a text document sent on didOpen.
type TextDocumentItem struct {
	Uri        string `json:"uri"`
	Version    int    `json:"version"`
	LanguageId string `json:"languageId"`
	Text       string `json:"text"`
}

// TextDocumentIdentifier identifies a text document by URI alone.
type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// Diagnostic represents one published diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
	Source   string `json:"source,omitempty"`
}

// PublishDiagnosticsParams holds parameters for publishing diagnostics.
type PublishDiagnosticsParams struct {
	Uri         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
