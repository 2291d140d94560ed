// Package docgen builds Markdown reference documentation for source
// modules by walking their parsed ASTs: imports, top-level bindings,
// functions, and the module's export surface.
package docgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/lexer"
	"github.com/trif-lang/trif/internal/parser"
)

// FunctionDoc describes one top-level function.
type FunctionDoc struct {
	Name     string
	Params   []string
	Exported bool
	Default  bool
}

// BindingDoc describes one top-level let or const binding.
type BindingDoc struct {
	Name     string
	Mutable  bool
	Exported bool
	Default  bool
}

// ImportDoc describes one import statement's bound names.
type ImportDoc struct {
	Module string
	Names  []string
}

// ModuleDoc is the documentation model for one module.
type ModuleDoc struct {
	Name      string
	Imports   []ImportDoc
	Bindings  []BindingDoc
	Functions []FunctionDoc
	// Exports lists every name visible to importers, sorted.
	Exports []string
	// HasDefault reports whether the module publishes a default export.
	HasDefault bool
}

// Describe parses source and extracts its documentation model. The name is
// the module's display name, typically the file stem.
func Describe(name, source string) (*ModuleDoc, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	module, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return describeModule(name, module), nil
}

func describeModule(name string, module *ast.Module) *ModuleDoc {
	doc := &ModuleDoc{Name: name}
	exports := map[string]bool{}

	for _, stmt := range module.Body {
		switch s := stmt.(type) {
		case *ast.Import:
			binding := s.Alias
			if binding == "" {
				binding = s.Module
			}
			doc.Imports = append(doc.Imports, ImportDoc{Module: s.Module, Names: []string{binding}})
		case *ast.ImportFrom:
			var names []string
			if s.Default != "" {
				names = append(names, s.Default)
			}
			if s.Namespace != "" {
				names = append(names, s.Namespace)
			}
			for _, spec := range s.Names {
				names = append(names, spec.Alias)
			}
			doc.Imports = append(doc.Imports, ImportDoc{Module: s.Module, Names: names})
		case *ast.Let:
			doc.Bindings = append(doc.Bindings, BindingDoc{
				Name:     s.Name,
				Mutable:  s.Mutable,
				Exported: s.Exported,
				Default:  s.IsDefault,
			})
			if s.Exported {
				exports[s.Name] = true
			}
			if s.IsDefault {
				doc.HasDefault = true
			}
		case *ast.FunctionDef:
			doc.Functions = append(doc.Functions, FunctionDoc{
				Name:     s.Name,
				Params:   s.Params,
				Exported: s.Exported,
				Default:  s.IsDefault,
			})
			if s.Exported {
				exports[s.Name] = true
			}
			if s.IsDefault {
				doc.HasDefault = true
			}
		case *ast.ExportNames:
			for _, spec := range s.Names {
				exports[spec.Alias] = true
			}
		case *ast.ExportDefault:
			doc.HasDefault = true
		}
	}

	for name := range exports {
		doc.Exports = append(doc.Exports, name)
	}
	sort.Strings(doc.Exports)
	return doc
}

// RenderMarkdown renders the documentation model as a Markdown page.
func RenderMarkdown(doc *ModuleDoc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Module `%s`\n", doc.Name)

	if len(doc.Imports) > 0 {
		sb.WriteString("\n## Imports\n\n")
		for _, imp := range doc.Imports {
			fmt.Fprintf(&sb, "- `%s` (binds %s)\n", imp.Module, strings.Join(imp.Names, ", "))
		}
	}

	if len(doc.Bindings) > 0 {
		sb.WriteString("\n## Bindings\n\n")
		for _, binding := range doc.Bindings {
			kind := "const"
			if binding.Mutable {
				kind = "let"
			}
			fmt.Fprintf(&sb, "- `%s %s`%s\n", kind, binding.Name, exportMarker(binding.Exported, binding.Default))
		}
	}

	if len(doc.Functions) > 0 {
		sb.WriteString("\n## Functions\n\n")
		for _, fn := range doc.Functions {
			fmt.Fprintf(&sb, "- `%s(%s)`%s\n", fn.Name, strings.Join(fn.Params, ", "), exportMarker(fn.Exported, fn.Default))
		}
	}

	sb.WriteString("\n## Export surface\n\n")
	if len(doc.Exports) == 0 && !doc.HasDefault {
		sb.WriteString("This module exports nothing.\n")
		return sb.String()
	}
	for _, name := range doc.Exports {
		fmt.Fprintf(&sb, "- `%s`\n", name)
	}
	if doc.HasDefault {
		sb.WriteString("- default export\n")
	}
	return sb.String()
}

func exportMarker(exported, isDefault bool) string {
	switch {
	case isDefault:
		return " (default export)"
	case exported:
		return " (exported)"
	}
	return ""
}

// Symbol is one documented name, qualified by its module.
type Symbol struct {
	Module string
	Name   string
	Kind   string
}

// Index is a searchable symbol table built from module docs.
type Index struct {
	symbols []Symbol
	keys    []string
}

// NewIndex collects every top-level binding and function from the docs.
func NewIndex(docs ...*ModuleDoc) *Index {
	idx := &Index{}
	for _, doc := range docs {
		for _, binding := range doc.Bindings {
			idx.add(Symbol{Module: doc.Name, Name: binding.Name, Kind: "binding"})
		}
		for _, fn := range doc.Functions {
			idx.add(Symbol{Module: doc.Name, Name: fn.Name, Kind: "function"})
		}
	}
	return idx
}

func (idx *Index) add(sym Symbol) {
	idx.symbols = append(idx.symbols, sym)
	idx.keys = append(idx.keys, sym.Module+"."+sym.Name)
}

// Search fuzzy-matches query against qualified symbol names, best match
// first.
func (idx *Index) Search(query string) []Symbol {
	matches := fuzzy.Find(query, idx.keys)
	results := make([]Symbol, len(matches))
	for i, match := range matches {
		results[i] = idx.symbols[match.Index]
	}
	return results
}
