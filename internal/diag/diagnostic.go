package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageCodegen Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnexpectedChar Code = "LEXER_UNEXPECTED_CHAR"

	// Parser errors
	CodeParserUnexpectedToken   Code = "PARSER_UNEXPECTED_TOKEN"
	CodeParserBadImport         Code = "PARSER_BAD_IMPORT"
	CodeParserBadExport         Code = "PARSER_BAD_EXPORT"
	CodeParserBadAssignTarget   Code = "PARSER_BAD_ASSIGN_TARGET"
	CodeParserSpawnRequiresCall Code = "PARSER_SPAWN_REQUIRES_CALL"

	// Codegen errors. These indicate a compiler bug, never a user error:
	// every grammar-producible node kind is handled by both backends.
	CodeGenUnsupportedNode Code = "CODEGEN_UNSUPPORTED_NODE"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
}

// WithFilename returns a copy of the diagnostic attributed to a file.
func (d Diagnostic) WithFilename(name string) Diagnostic {
	d.Span.Filename = name
	return d
}
