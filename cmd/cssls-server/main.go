// Command cssls-server is the stdio Language Server Protocol frontend for
// the CSS/SCSS/LESS toolchain in this module: configure logging, read
// Content-Length framed JSON-RPC off stdin in a loop, dispatch by method,
// write the response back framed the same way. Every request is served
// directly off the already-parsed in-memory document for its own URI;
// documents don't reference each other, so there is no workspace-wide
// state to reconcile and no validation worker.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cssls/cssls/cmd/cssls-server/lsp"
	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/csscompletion"
	"github.com/cssls/cssls/internal/cssdata"
	"github.com/cssls/cssls/internal/cssdocsym"
	"github.com/cssls/cssls/internal/cssfold"
	"github.com/cssls/cssls/internal/csshover"
	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/csslink"
	"github.com/cssls/cssls/internal/cssnav"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/cssrename"
	"github.com/cssls/cssls/internal/cssscope"
	"github.com/cssls/cssls/internal/logger"
)

var version = "dev"

const serverName = "cssls"

// document holds everything derived from one open file's text: the parse
// tree, its scope/symbol table, and the diagnostics the parse produced.
type document struct {
	uri     string
	dialect csslexer.Dialect
	source  logger.Source
	tree    *cssast.Tree
	root    cssast.Index
	symbols *cssscope.Symbols
	tracker logger.LineColumnTracker
	msgs    []logger.Msg
}

// workspace holds every open document plus the curated data tables shared
// across all of them.
type workspace struct {
	mu        sync.Mutex
	documents map[string]*document
	data      *cssdata.Provider
}

func newWorkspace() *workspace {
	data, err := cssdata.LoadDefault()
	if err != nil {
		slog.Error("loading default css data table: " + err.Error())
		data = &cssdata.Data{}
	}
	return &workspace{documents: make(map[string]*document), data: cssdata.NewProvider(data)}
}

func (w *workspace) open(uri, languageId, text string) *document {
	doc := parseDocument(uri, languageId, text)
	w.mu.Lock()
	w.documents[uri] = doc
	w.mu.Unlock()
	return doc
}

func (w *workspace) get(uri string) (*document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, ok := w.documents[uri]
	return doc, ok
}

func dialectForURI(uri string) csslexer.Dialect {
	lower := strings.ToLower(uri)
	switch {
	case strings.HasSuffix(lower, ".scss"):
		return csslexer.SCSS
	case strings.HasSuffix(lower, ".less"):
		return csslexer.LESS
	default:
		return csslexer.CSS
	}
}

func parseDocument(uri, languageId, text string) *document {
	dialect := dialectForURI(uri)
	switch strings.ToLower(languageId) {
	case "scss":
		dialect = csslexer.SCSS
	case "less":
		dialect = csslexer.LESS
	case "css":
		dialect = csslexer.CSS
	}

	source := logger.Source{PrettyPath: uri, Contents: text}
	log := logger.NewDeferLog()
	tree, root := cssparser.Parse(log, &source, dialect)
	return &document{
		uri:     uri,
		dialect: dialect,
		source:  source,
		tree:    tree,
		root:    root,
		symbols: cssscope.New(tree, root),
		tracker: logger.MakeLineColumnTracker(&source),
		msgs:    log.Done(),
	}
}

func (d *document) toRange(r logger.Range) lsp.Range {
	startLine, startCol := d.tracker.Position(r.Loc.Start)
	endLine, endCol := d.tracker.Position(r.End())
	return lsp.Range{
		Start: lsp.Position{Line: uint(startLine - 1), Character: uint(startCol)},
		End:   lsp.Position{Line: uint(endLine - 1), Character: uint(endCol)},
	}
}

func (d *document) offsetOf(pos lsp.Position) int32 {
	return d.tracker.OffsetOf(int(pos.Line)+1, int(pos.Character))
}

func (d *document) diagnostics() []lsp.Diagnostic {
	out := make([]lsp.Diagnostic, 0, len(d.msgs))
	for _, m := range d.msgs {
		loc := m.Data.Location
		if loc == nil {
			continue
		}
		severity := lsp.SeverityError
		if m.Kind == logger.Warning {
			severity = lsp.SeverityWarning
		}
		out = append(out, lsp.Diagnostic{
			Range: lsp.Range{
				Start: lsp.Position{Line: uint(loc.Line - 1), Character: uint(loc.Column)},
				End:   lsp.Position{Line: uint(loc.Line - 1), Character: uint(loc.Column + loc.Length)},
			},
			Message:  m.Data.Text,
			Severity: severity,
			Source:   serverName,
		})
	}
	return out
}

func main() {
	versionFlag := flag.Bool("version", false, "print the server version")
	flag.Parse()
	if *versionFlag {
		fmt.Printf("%s -- version %s\n", serverName, version)
		os.Exit(0)
	}

	sessionID := uuid.New().String()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	slog.Info("starting cssls", slog.String("session", sessionID), slog.String("version", version))

	ws := newWorkspace()
	scanner := lsp.ReceiveInput(os.Stdin)
	stdout := os.Stdout
	var muStdout sync.Mutex
	send := func(body []byte) {
		muStdout.Lock()
		lsp.SendToLspClient(stdout, body)
		muStdout.Unlock()
	}

	isExiting := false
	for scanner.Scan() {
		data := scanner.Bytes()
		var probe lsp.RequestMessage[json.RawMessage]
		if err := json.Unmarshal(data, &probe); err != nil {
			slog.Error("malformed request: " + err.Error())
			continue
		}

		if isExiting {
			if probe.Method == lsp.MethodExit {
				break
			}
			send(lsp.ProcessIllegalRequestAfterShutdown(probe.JsonRpc, probe.Id))
			continue
		}

		switch probe.Method {
		case lsp.MethodInitialize:
			response, _ := lsp.ProcessInitializeRequest(data, serverName, version)
			send(response)

		case lsp.MethodInitialized:
			// no response expected

		case lsp.MethodShutdown:
			isExiting = true
			send(lsp.ProcessShutdownRequest(probe.JsonRpc, probe.Id))

		case lsp.MethodDidOpen:
			uri, languageId, text := lsp.ProcessDidOpenTextDocumentNotification(data)
			doc := ws.open(uri, languageId, text)
			send(lsp.NewPublishDiagnosticsNotification(uri, doc.diagnostics()))

		case lsp.MethodDidChange:
			uri, text := lsp.ProcessDidChangeTextDocumentNotification(data)
			if doc, ok := ws.get(uri); ok {
				doc = ws.open(uri, languageIDFromDialect(doc.dialect), text)
				send(lsp.NewPublishDiagnosticsNotification(uri, doc.diagnostics()))
			}

		case lsp.MethodDidClose:
			// diagnostics for a closed file are left as last published;
			// nothing else to tear down since each document is immutable.

		case lsp.MethodHover:
			handleHover(ws, data, send)

		case lsp.MethodCompletion:
			handleCompletion(ws, data, send)

		case lsp.MethodDefinition:
			handleDefinition(ws, data, send)

		case lsp.MethodReferences:
			handleReferences(ws, data, send)

		case lsp.MethodDocumentHighlight:
			handleDocumentHighlight(ws, data, send)

		case lsp.MethodDocumentSymbol:
			handleDocumentSymbol(ws, data, send)

		case lsp.MethodDocumentLink:
			handleDocumentLink(ws, data, send)

		case lsp.MethodFoldingRange:
			handleFoldingRange(ws, data, send)

		case lsp.MethodSelectionRange:
			handleSelectionRange(ws, data, send)

		case lsp.MethodRename:
			handleRename(ws, data, send)
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Error("stdin scan failed: " + err.Error())
		os.Exit(1)
	}
}

func languageIDFromDialect(d csslexer.Dialect) string {
	switch d {
	case csslexer.SCSS:
		return "scss"
	case csslexer.LESS:
		return "less"
	default:
		return "css"
	}
}

func handleHover(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos := lsp.ParseHoverRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildHoverResponse(id, "", false))
		return
	}
	h, ok := csshover.At(doc.tree, doc.root, doc.symbols, ws.data, doc.offsetOf(pos))
	send(lsp.BuildHoverResponse(id, h.Contents, ok))
}

func handleCompletion(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos := lsp.ParseCompletionRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildCompletionResponse(id, nil))
		return
	}
	items := csscompletion.Propose(doc.tree, doc.root, doc.symbols, ws.data, doc.offsetOf(pos))
	out := make([]lsp.CompletionItem, len(items))
	for i, it := range items {
		out[i] = lsp.CompletionItem{Label: it.Label, Kind: int(it.Kind), Detail: it.Detail, InsertText: it.InsertText}
	}
	send(lsp.BuildCompletionResponse(id, out))
}

func handleDefinition(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos := lsp.ParseDefinitionRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildDefinitionResponse(id, lsp.Location{}, false))
		return
	}
	loc, ok := cssnav.Definition(doc.tree, doc.root, doc.symbols, doc.offsetOf(pos))
	send(lsp.BuildDefinitionResponse(id, lsp.Location{URI: uri, Range: doc.toRange(loc.Range)}, ok))
}

func handleReferences(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos, includeDeclaration := lsp.ParseReferencesRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildReferencesResponse(id, nil))
		return
	}
	locs := cssnav.References(doc.tree, doc.root, doc.symbols, doc.offsetOf(pos), includeDeclaration)
	send(lsp.BuildReferencesResponse(id, toLocations(doc, uri, locs)))
}

func handleDocumentHighlight(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos := lsp.ParseDocumentHighlightRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildDocumentHighlightResponse(id, nil))
		return
	}
	locs := cssnav.References(doc.tree, doc.root, doc.symbols, doc.offsetOf(pos), true)
	out := make([]lsp.DocumentHighlight, len(locs))
	for i, loc := range locs {
		out[i] = lsp.DocumentHighlight{Range: doc.toRange(loc.Range)}
	}
	send(lsp.BuildDocumentHighlightResponse(id, out))
}

func toLocations(doc *document, uri string, locs []cssnav.Location) []lsp.Location {
	out := make([]lsp.Location, len(locs))
	for i, loc := range locs {
		out[i] = lsp.Location{URI: uri, Range: doc.toRange(loc.Range)}
	}
	return out
}

func handleDocumentSymbol(ws *workspace, data []byte, send func([]byte)) {
	id, uri := lsp.ParseDocumentSymbolRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildDocumentSymbolResponse(id, nil))
		return
	}
	symbols := cssdocsym.Outline(doc.tree, doc.root)
	send(lsp.BuildDocumentSymbolResponse(id, toDocumentSymbols(doc, symbols)))
}

func toDocumentSymbols(doc *document, symbols []cssdocsym.Symbol) []lsp.DocumentSymbol {
	out := make([]lsp.DocumentSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = lsp.DocumentSymbol{
			Name:           s.Name,
			Detail:         s.Detail,
			Kind:           lsp.SymbolKind(s.Kind),
			Range:          doc.toRange(s.Range),
			SelectionRange: doc.toRange(s.SelectionRange),
			Children:       toDocumentSymbols(doc, s.Children),
		}
	}
	return out
}

func handleDocumentLink(ws *workspace, data []byte, send func([]byte)) {
	id, uri := lsp.ParseDocumentLinkRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildDocumentLinkResponse(id, nil))
		return
	}
	links := csslink.Find(doc.tree, doc.root)
	out := make([]lsp.DocumentLink, len(links))
	for i, l := range links {
		target := l.Target
		if !csslink.IsRemote(target) {
			target = ""
		}
		out[i] = lsp.DocumentLink{Range: doc.toRange(l.Range), Target: target}
	}
	send(lsp.BuildDocumentLinkResponse(id, out))
}

func handleFoldingRange(ws *workspace, data []byte, send func([]byte)) {
	id, uri := lsp.ParseFoldingRangeRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildFoldingRangeResponse(id, nil))
		return
	}
	ranges := cssfold.Ranges(doc.tree, doc.root, &doc.source)
	out := make([]lsp.FoldingRange, len(ranges))
	for i, r := range ranges {
		startLine, _ := doc.tracker.Position(r.Start)
		endLine, _ := doc.tracker.Position(r.End)
		out[i] = lsp.FoldingRange{StartLine: uint(startLine - 1), EndLine: uint(endLine - 1), Kind: r.Kind}
	}
	send(lsp.BuildFoldingRangeResponse(id, out))
}

func handleSelectionRange(ws *workspace, data []byte, send func([]byte)) {
	id, uri, positions := lsp.ParseSelectionRangeRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildSelectionRangeResponse(id, nil))
		return
	}
	out := make([]*lsp.SelectionRange, len(positions))
	for i, pos := range positions {
		pyramid := cssfold.SelectionRanges(doc.tree, doc.root, doc.offsetOf(pos))
		ranges := make([]lsp.Range, len(pyramid))
		for j, r := range pyramid {
			ranges[j] = doc.toRange(r)
		}
		out[i] = lsp.ChainSelectionRanges(ranges)
	}
	send(lsp.BuildSelectionRangeResponse(id, out))
}

func handleRename(ws *workspace, data []byte, send func([]byte)) {
	id, uri, pos, newName := lsp.ParseRenameRequest(data)
	doc, ok := ws.get(uri)
	if !ok {
		send(lsp.BuildRenameResponse(id, uri, nil, fmt.Errorf("cssls: %s is not open", uri)))
		return
	}
	edits, err := cssrename.Plan(doc.tree, doc.root, doc.symbols, doc.offsetOf(pos), newName)
	if err != nil {
		send(lsp.BuildRenameResponse(id, uri, nil, err))
		return
	}
	out := make([]lsp.TextEdit, len(edits))
	for i, e := range edits {
		out[i] = lsp.TextEdit{Range: doc.toRange(e.Range), NewText: e.NewText}
	}
	send(lsp.BuildRenameResponse(id, uri, out, nil))
}
