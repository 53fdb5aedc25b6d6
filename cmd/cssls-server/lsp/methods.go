package lsp

import "encoding/json"

// InitializeParams holds parameters for the initialize request.
type InitializeParams struct {
	ProcessId        int            `json:"processId"`
	Capabilities     map[string]any `json:"capabilities"`
	ClientInfo       ClientInfo     `json:"clientInfo"`
	RootUri          string         `json:"rootUri"`
	WorkspaceFolders any            `json:"workspaceFolders"`
}

// ClientInfo describes the connecting editor.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CompletionOptions describes completion capabilities.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

// ServerCapabilities describes the capabilities this server supports.
type ServerCapabilities struct {
	TextDocumentSync          int                `json:"textDocumentSync"`
	HoverProvider             bool               `json:"hoverProvider,omitempty"`
	CompletionProvider        *CompletionOptions `json:"completionProvider,omitempty"`
	DefinitionProvider        bool               `json:"definitionProvider,omitempty"`
	ReferencesProvider        bool               `json:"referencesProvider,omitempty"`
	DocumentHighlightProvider bool               `json:"documentHighlightProvider,omitempty"`
	DocumentSymbolProvider    bool               `json:"documentSymbolProvider,omitempty"`
	DocumentLinkProvider      bool               `json:"documentLinkProvider,omitempty"`
	FoldingRangeProvider      bool               `json:"foldingRangeProvider,omitempty"`
	SelectionRangeProvider    bool               `json:"selectionRangeProvider,omitempty"`
	RenameProvider            bool               `json:"renameProvider,omitempty"`
}

// ServerInfo describes this server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the response to the initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ProcessInitializeRequest handles the initialize request, returning the
// marshaled response plus the client's declared workspace root.
func ProcessInitializeRequest(data []byte, serverName, version string) (response []byte, rootURI string) {
	var req RequestMessage[InitializeParams]
	_ = json.Unmarshal(data, &req)

	res := ResponseMessage[InitializeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      req.Id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:          TextDocumentSyncFull,
				HoverProvider:             true,
				CompletionProvider:        &CompletionOptions{TriggerCharacters: []string{":", "$", "@", "-", " "}},
				DefinitionProvider:        true,
				ReferencesProvider:        true,
				DocumentHighlightProvider: true,
				DocumentSymbolProvider:    true,
				DocumentLinkProvider:      true,
				FoldingRangeProvider:      true,
				SelectionRangeProvider:    true,
				RenameProvider:            true,
			},
			ServerInfo: ServerInfo{Name: serverName, Version: version},
		},
	}
	return marshalOrPanic(res), req.Params.RootUri
}

// ProcessShutdownRequest handles the shutdown request.
func ProcessShutdownRequest(jsonVersion string, id ID) []byte {
	return marshalOrPanic(ResponseMessage[any]{JsonRpc: jsonVersion, Id: id})
}

// ProcessIllegalRequestAfterShutdown returns an error for requests that
// arrive after shutdown but before exit.
func ProcessIllegalRequestAfterShutdown(jsonVersion string, id ID) []byte {
	return marshalOrPanic(ResponseMessage[any]{
		JsonRpc: jsonVersion,
		Id:      id,
		Error:   &ResponseError{Code: ErrorInvalidRequest, Message: "illegal request while server shutting down"},
	})
}

// DidOpenTextDocumentParams holds parameters for textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// ProcessDidOpenTextDocumentNotification handles textDocument/didOpen.
func ProcessDidOpenTextDocumentNotification(data []byte) (uri, languageId, text string) {
	var req RequestMessage[DidOpenTextDocumentParams]
	_ = json.Unmarshal(data, &req)
	return req.Params.TextDocument.Uri, req.Params.TextDocument.LanguageId, req.Params.TextDocument.Text
}

// TextDocumentContentChangeEvent represents a full-document content change
// (the server only advertises TextDocumentSyncFull, so there is always
// exactly one and it carries the whole new text).
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

// DidChangeTextDocumentParams holds parameters for textDocument/didChange.
type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentIdentifier           `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// ProcessDidChangeTextDocumentNotification handles textDocument/didChange.
func ProcessDidChangeTextDocumentNotification(data []byte) (uri, text string) {
	var req RequestMessage[DidChangeTextDocumentParams]
	_ = json.Unmarshal(data, &req)
	if len(req.Params.ContentChanges) == 0 {
		return req.Params.TextDocument.Uri, ""
	}
	return req.Params.TextDocument.Uri, req.Params.ContentChanges[len(req.Params.ContentChanges)-1].Text
}

// NewPublishDiagnosticsNotification marshals a textDocument/publishDiagnostics
// notification for uri.
func NewPublishDiagnosticsNotification(uri string, diagnostics []Diagnostic) []byte {
	return marshalOrPanic(NotificationMessage[PublishDiagnosticsParams]{
		JsonRpc: JSONRPCVersion,
		Method:  MethodPublishDiagnostics,
		Params:  PublishDiagnosticsParams{Uri: uri, Diagnostics: diagnostics},
	})
}
