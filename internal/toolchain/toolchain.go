// Package toolchain orchestrates builds: it drives the compiler over one
// source file, writes per-target artifacts under the build directory, and
// formats build summaries for the CLI.
package toolchain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/trif-lang/trif/internal/compiler"
)

// BuildOptions controls how a build is executed.
type BuildOptions struct {
	// Targets lists the outputs to produce; empty means Python only.
	Targets []compiler.Target
	// Optimize enables constant folding.
	Optimize bool
	// Encrypt, when non-empty, is the passphrase used to obfuscate text
	// artifacts. Bytecode artifacts are written as-is.
	Encrypt string
	// BuildDir is the artifact root, resolved against the project root when
	// relative. Defaults to TRIF_BUILD_DIR, then "build".
	BuildDir string
}

// Artifact describes one emitted build output.
type Artifact struct {
	Target compiler.Target
	Path   string
	Size   int
}

// Toolchain binds a compiler to a project root.
type Toolchain struct {
	root     string
	compiler *compiler.Compiler
	log      *slog.Logger
}

// New returns a toolchain rooted at projectRoot. An empty root means the
// current working directory.
func New(projectRoot string, log *slog.Logger) (*Toolchain, error) {
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		projectRoot = wd
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Toolchain{root: root, compiler: compiler.New(), log: log}, nil
}

// Root returns the absolute project root.
func (t *Toolchain) Root() string { return t.root }

// Build compiles source into <build>/<target>/... and returns the emitted
// artifacts. Outputs are isolated per backend so targets never clobber each
// other.
func (t *Toolchain) Build(source string, opts BuildOptions) ([]Artifact, error) {
	targets, err := normalizeTargets(opts.Targets)
	if err != nil {
		return nil, err
	}
	buildRoot := opts.BuildDir
	if buildRoot == "" {
		buildRoot = env.Str("TRIF_BUILD_DIR", "build")
	}
	buildRoot = t.resolve(buildRoot)

	sourcePath := t.resolve(source)
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source file %s: %w", sourcePath, err)
	}

	artifacts := make([]Artifact, 0, len(targets))
	for _, target := range targets {
		relative := t.relativeToRoot(sourcePath)
		relative = strings.TrimSuffix(relative, filepath.Ext(relative)) + target.Extension()
		outputPath := filepath.Join(buildRoot, string(target), relative)
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return nil, err
		}

		compiled, err := t.compiler.CompileFile(sourcePath, target, opts.Optimize)
		if err != nil {
			return nil, err
		}
		if opts.Encrypt != "" && target != compiler.TargetBytecode {
			compiled = []byte(compiler.EncryptOutput(string(compiled), opts.Encrypt))
		}
		if err := os.WriteFile(outputPath, compiled, 0o644); err != nil {
			return nil, err
		}

		t.log.Info("wrote artifact",
			"target", string(target),
			"path", outputPath,
			"size", len(compiled))
		artifacts = append(artifacts, Artifact{Target: target, Path: outputPath, Size: len(compiled)})
	}
	return artifacts, nil
}

// FormatBuildSummary renders artifacts as an aligned table with paths shown
// relative to the project root where possible.
func (t *Toolchain) FormatBuildSummary(artifacts []Artifact) string {
	if len(artifacts) == 0 {
		return "No build artifacts were produced."
	}

	rows := [][3]string{{"Target", "Output", "Size"}}
	for _, artifact := range artifacts {
		rows = append(rows, [3]string{
			string(artifact.Target),
			t.relativeToRoot(artifact.Path),
			formatSize(artifact.Size),
		})
	}

	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for idx, row := range rows {
		fmt.Fprintf(&sb, "%-*s  %-*s  %s\n", widths[0], row[0], widths[1], row[1], row[2])
		if idx == 0 {
			fmt.Fprintf(&sb, "%s  %s  %s\n",
				strings.Repeat("-", widths[0]),
				strings.Repeat("-", widths[1]),
				strings.Repeat("-", widths[2]))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (t *Toolchain) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(t.root, path)
}

func (t *Toolchain) relativeToRoot(path string) string {
	rel, err := filepath.Rel(t.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

// normalizeTargets validates and de-duplicates the requested targets,
// preserving the caller's order.
func normalizeTargets(targets []compiler.Target) ([]compiler.Target, error) {
	if len(targets) == 0 {
		return []compiler.Target{compiler.TargetPython}, nil
	}
	valid := map[compiler.Target]bool{}
	for _, t := range compiler.Targets() {
		valid[t] = true
	}
	var unique []compiler.Target
	seen := map[compiler.Target]bool{}
	for _, target := range targets {
		if !valid[target] {
			return nil, &compiler.UnknownTargetError{Target: target}
		}
		if seen[target] {
			continue
		}
		seen[target] = true
		unique = append(unique, target)
	}
	return unique, nil
}

func formatSize(size int) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	for _, unit := range []string{"KB", "MB", "GB"} {
		value /= 1024
		if value < 1024 || unit == "GB" {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%d B", size)
}
