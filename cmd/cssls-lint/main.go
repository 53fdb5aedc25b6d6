// Command cssls-lint parses one or more CSS/SCSS/LESS files from disk and
// prints their diagnostics, one-shot and non-interactive — the CLI
// counterpart to cssls-server. Msg.String() renders each diagnostic in
// clang style, and internal/logger's TerminalInfo probes whether stderr
// is a real terminal (and how wide) before wrapping.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cssls/cssls/internal/csslexer"
	"github.com/cssls/cssls/internal/cssparser"
	"github.com/cssls/cssls/internal/logger"
)

func main() {
	dialectFlag := flag.String("dialect", "", "force the dialect (css, scss, less) instead of guessing from the extension")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cssls-lint [-dialect css|scss|less] FILE...")
		os.Exit(2)
	}

	term := logger.TerminalInfo(os.Stderr)

	hadErrors := false
	for _, path := range args {
		if lintFile(path, *dialectFlag, term) {
			hadErrors = true
		}
	}
	if hadErrors {
		os.Exit(1)
	}
}

func lintFile(path, forceDialect string, term logger.TerminalInfoResult) bool {
	contents, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cssls-lint: %s: %s\n", path, err)
		return true
	}

	dialect := dialectFor(path, forceDialect)
	source := logger.Source{PrettyPath: path, Contents: string(contents)}
	log := logger.NewDeferLog()
	_, _ = cssparser.Parse(log, &source, dialect)

	msgs := log.Done()
	for _, m := range msgs {
		printMsg(m, term)
	}
	return log.HasErrors()
}

func dialectFor(path, forced string) csslexer.Dialect {
	switch strings.ToLower(forced) {
	case "scss":
		return csslexer.SCSS
	case "less":
		return csslexer.LESS
	case "css":
		return csslexer.CSS
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".scss"):
		return csslexer.SCSS
	case strings.HasSuffix(lower, ".less"):
		return csslexer.LESS
	default:
		return csslexer.CSS
	}
}

func printMsg(m logger.Msg, term logger.TerminalInfoResult) {
	text := m.String()
	if !term.IsTTY || term.Width <= 0 {
		fmt.Fprint(os.Stderr, text)
		return
	}
	fmt.Fprint(os.Stderr, wrapLines(text, term.Width))
}

// wrapLines hard-wraps any line of text longer than width, for terminals
// narrower than the diagnostic's source-line excerpt.
func wrapLines(text string, width int) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		for len(line) > width {
			b.WriteString(line[:width])
			b.WriteByte('\n')
			line = line[width:]
		}
		b.WriteString(line)
		if i != len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
