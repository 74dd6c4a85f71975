package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/joeblew999/deckshow/runtime"
)

// Loader returns the content of a decksh file by path
type Loader func(ctx context.Context, path string) ([]byte, error)

// ImportResolver expands decksh import and include statements without a filesystem,
// so decksh can run in-process on sources held in storage.
//
// import "f" inlines the def/edef block of f once per function name.
// include "f" inlines the whole of f, recursively expanded.
type ImportResolver struct {
	Loader Loader

	// BasePath is the directory relative source paths start from
	BasePath string

	// funcDefs holds inlined functions by name
	funcDefs map[string]string
}

// NewImportResolver creates a resolver reading files through loader
func NewImportResolver(loader Loader, basePath string) *ImportResolver {
	return &ImportResolver{
		Loader:   loader,
		BasePath: basePath,
		funcDefs: make(map[string]string),
	}
}

var (
	importRegex  = regexp.MustCompile(`^\s*import\s+"([^"]+)"\s*$`)
	includeRegex = regexp.MustCompile(`^\s*include\s+"([^"]+)"\s*$`)
	defRegex     = regexp.MustCompile(`^\s*def\s+(\w+)`)
	edefRegex    = regexp.MustCompile(`^\s*edef\s*$`)
)

// Expand returns source with every import and include inlined
func (r *ImportResolver) Expand(ctx context.Context, source []byte, sourcePath string) ([]byte, error) {
	full := sourcePath
	if !path.IsAbs(sourcePath) && r.BasePath != "" {
		full = path.Join(r.BasePath, sourcePath)
	}
	return r.expand(ctx, source, full, map[string]bool{full: true})
}

func (r *ImportResolver) expand(ctx context.Context, source []byte, sourcePath string, open map[string]bool) ([]byte, error) {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := scanner.Text()

		if m := importRegex.FindStringSubmatch(line); m != nil {
			content, err := r.Loader(ctx, resolvePath(m[1], sourcePath))
			if err != nil {
				return nil, fmt.Errorf("load import %q: %w", m[1], err)
			}
			def, name, err := extractFunctionDef(content)
			if err != nil {
				return nil, fmt.Errorf("import %q: %w", m[1], err)
			}
			if _, seen := r.funcDefs[name]; !seen {
				r.funcDefs[name] = def
				fmt.Fprintf(&out, "// Function imported from: %s\n%s\n", m[1], def)
			}
			continue
		}

		if m := includeRegex.FindStringSubmatch(line); m != nil {
			resolved := resolvePath(m[1], sourcePath)
			if open[resolved] {
				return nil, fmt.Errorf("include cycle at %q", m[1])
			}
			content, err := r.Loader(ctx, resolved)
			if err != nil {
				return nil, fmt.Errorf("load include %q: %w", m[1], err)
			}
			open[resolved] = true
			expanded, err := r.expand(ctx, content, resolved, open)
			delete(open, resolved)
			if err != nil {
				return nil, fmt.Errorf("expand include %q: %w", m[1], err)
			}
			fmt.Fprintf(&out, "// BEGIN INCLUDE: %s\n", m[1])
			out.Write(expanded)
			fmt.Fprintf(&out, "// END INCLUDE: %s\n", m[1])
			continue
		}

		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	return out.Bytes(), nil
}

// Functions returns the names of the functions inlined so far
func (r *ImportResolver) Functions() []string {
	names := make([]string, 0, len(r.funcDefs))
	for n := range r.funcDefs {
		names = append(names, n)
	}
	return names
}

// resolvePath resolves p against the directory of sourcePath
func resolvePath(p, sourcePath string) string {
	if path.IsAbs(p) {
		return p
	}
	return path.Join(path.Dir(sourcePath), p)
}

// extractFunctionDef returns the first def/edef block of source and its name
func extractFunctionDef(source []byte) (string, string, error) {
	var block bytes.Buffer
	var name string
	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := scanner.Text()
		if m := defRegex.FindStringSubmatch(line); m != nil {
			if name != "" {
				return "", "", fmt.Errorf("nested def blocks not supported")
			}
			name = m[1]
			block.WriteString(line)
			block.WriteByte('\n')
			continue
		}
		if edefRegex.MatchString(line) {
			if name == "" {
				return "", "", fmt.Errorf("edef without matching def")
			}
			block.WriteString(line)
			return block.String(), name, nil
		}
		if name != "" {
			block.WriteString(line)
			block.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("scan source: %w", err)
	}
	if name != "" {
		return "", "", fmt.Errorf("unclosed def block for function %q", name)
	}
	return "", "", fmt.Errorf("no function definition found")
}

// HasImports reports whether source has import or include statements
func HasImports(source []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		if line := scanner.Text(); importRegex.MatchString(line) || includeRegex.MatchString(line) {
			return true
		}
	}
	return false
}

// StorageLoader reads files from storage; a leading slash is dropped from the key
func StorageLoader(s runtime.Storage) Loader {
	return func(ctx context.Context, p string) ([]byte, error) {
		return runtime.ReadAll(ctx, s, strings.TrimPrefix(p, "/"))
	}
}
