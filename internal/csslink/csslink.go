// Package csslink extracts document-link targets (`@import`/`@use`/
// `@forward`/`url()`) from a parsed stylesheet: walk the tree once,
// collect a (range, raw target) pair per link-bearing construct. This
// package never touches a filesystem — resolving a target against a
// workspace root and checking it exists is the caller's job.
package csslink

import (
	"strings"

	"github.com/cssls/cssls/internal/cssast"
	"github.com/cssls/cssls/internal/logger"
)

// Link is one link-bearing occurrence in the document: the range of the
// target as written in the source (quotes included; an unquoted url(...)
// covers the whole literal) and the raw target string, with quotes and
// any url() wrapper stripped, that an LSP documentLink response's `target` (after the caller
// resolves it against a base URI) or a code-action "open file" command
// would use.
type Link struct {
	Range  logger.Range
	Target string
}

// Find walks the tree once and returns every import/use/forward/url()
// link target it finds, in document order.
func Find(tree *cssast.Tree, root cssast.Index) []Link {
	var out []Link
	tree.Accept(root, func(idx cssast.Index) bool {
		n := tree.Node(idx)
		switch n.Kind {
		case cssast.KindImport:
			if data, _ := tree.Data(idx).(*cssast.ImportData); data != nil && data.URL != "" {
				if r, target, ok := unwrap(tree, idx, data.URL); ok {
					out = append(out, Link{Range: r, Target: target})
				}
			}
		case cssast.KindUse, cssast.KindForward:
			if r, target, ok := firstQuotedString(tree, idx); ok {
				out = append(out, Link{Range: r, Target: target})
			}
		case cssast.KindURLLiteral:
			// The scanner folds an unquoted "url(...)" into a single URI
			// token, so the link target is the whole node's own text with
			// the url() wrapper stripped.
			target := unquote(tree.GetText(idx))
			out = append(out, Link{Range: n.Range, Target: target})
		case cssast.KindFunction:
			// A quoted url("...") is not folded into a URI token; it parses
			// as a Function named "url" whose first argument is the string.
			if data, _ := tree.Data(idx).(*cssast.FunctionData); data != nil && strings.EqualFold(data.Name, "url") && len(data.Arguments) > 0 {
				arg := data.Arguments[0]
				out = append(out, Link{Range: tree.Node(arg).Range, Target: unquote(tree.GetText(arg))})
			}
		}
		return true
	})
	return out
}

// unwrap locates raw's quoted-string or url(...) substring inside node's
// own source range and returns the narrower range plus the unwrapped
// target text. Import nodes store the already-scanned token text in
// ImportData.URL but allocate no child node for it, so the range has to
// be found by scanning the node's own text.
func unwrap(tree *cssast.Tree, idx cssast.Index, raw string) (logger.Range, string, bool) {
	n := tree.Node(idx)
	text := tree.GetText(idx)
	at := strings.Index(text, raw)
	if at < 0 {
		return logger.Range{}, "", false
	}
	r := logger.Range{Loc: logger.Loc{Start: n.Range.Loc.Start + int32(at)}, Len: int32(len(raw))}
	return r, unquote(raw), true
}

func firstQuotedString(tree *cssast.Tree, idx cssast.Index) (logger.Range, string, bool) {
	n := tree.Node(idx)
	text := tree.GetText(idx)
	for _, q := range []byte{'"', '\''} {
		start := strings.IndexByte(text, q)
		if start < 0 {
			continue
		}
		end := strings.IndexByte(text[start+1:], q)
		if end < 0 {
			continue
		}
		end = start + 1 + end
		r := logger.Range{Loc: logger.Loc{Start: n.Range.Loc.Start + int32(start)}, Len: int32(end - start + 1)}
		return r, text[start+1 : end], true
	}
	return logger.Range{}, "", false
}

// unquote strips a surrounding "'...'"/"\"...\"" or "url(...)" wrapper
// from raw scanner text, leaving the bare target path.
func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "url(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[4 : len(raw)-1])
	}
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') || (raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// IsRemote reports whether target is an absolute URL rather than a
// relative workspace path.
func IsRemote(target string) bool {
	for _, scheme := range []string{"http://", "https://", "//", "data:"} {
		if strings.HasPrefix(target, scheme) {
			return true
		}
	}
	return false
}

// FileType classifies what a FileSystem's Stat found at a URI.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeFile
	FileTypeDirectory
	FileTypeSymbolicLink
)

// FileStat is the metadata a FileSystem reports for one URI.
type FileStat struct {
	Type  FileType
	Size  int64
	CTime int64
	MTime int64
}

// FileSystem is the trait link resolution runs against. Implementations
// live with the caller (an editor host, a test fake); nothing in this
// module touches a real filesystem.
type FileSystem interface {
	Stat(uri string) (FileStat, error)
}

// Resolve maps each link's raw target to a full URI against baseURI's
// directory and keeps only those fs can stat (remote targets pass
// through unchecked, with their original target). The returned links
// carry the resolved target. Joining is plain string work on "/"
// segments rather than the path package, which would collapse a URI
// scheme's "//".
func Resolve(links []Link, baseURI string, fs FileSystem) []Link {
	dir := baseURI
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		dir = dir[:i]
	}
	var out []Link
	for _, l := range links {
		if IsRemote(l.Target) {
			out = append(out, l)
			continue
		}
		if fs == nil {
			continue
		}
		resolved := joinURI(dir, l.Target)
		if _, err := fs.Stat(resolved); err != nil {
			continue
		}
		out = append(out, Link{Range: l.Range, Target: resolved})
	}
	return out
}

func joinURI(dir, target string) string {
	target = strings.TrimPrefix(target, "./")
	for strings.HasPrefix(target, "../") {
		target = target[len("../"):]
		if i := strings.LastIndexByte(dir, '/'); i > 0 {
			dir = dir[:i]
		}
	}
	return dir + "/" + target
}
