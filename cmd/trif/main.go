// Command trif is the Trif language toolchain: compile sources to Python,
// JavaScript, or bytecode, build multi-target artifacts, obfuscate outputs,
// generate documentation, and manage packages.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/trif-lang/trif/internal/codegen"
	"github.com/trif-lang/trif/internal/diag"
	"github.com/trif-lang/trif/internal/lexer"
	"github.com/trif-lang/trif/internal/parser"
)

type cli struct {
	Verbose bool   `help:"Enable debug logging." short:"v"`
	Profile string `help:"Collect a profile while the command runs." enum:"none,cpu,mem" default:"none"`

	Compile compileCmd `cmd:"" help:"Compile a source file to one target."`
	Build   buildCmd   `cmd:"" help:"Build artifacts for one or more targets."`
	Encrypt encryptCmd `cmd:"" help:"Obfuscate a compiled artifact with a passphrase."`
	Decrypt decryptCmd `cmd:"" help:"Reverse the obfuscation transform."`
	Docs    docsCmd    `cmd:"" help:"Generate Markdown documentation for source modules."`
	Pkg     pkgCmd     `cmd:"" help:"Manage Trif packages."`
}

func main() {
	var c cli
	ktx := kong.Parse(&c,
		kong.Name("trif"),
		kong.Description("Compiler and toolchain for the Trif language."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	stop := startProfile(c.Profile)
	err := ktx.Run(log)
	stop()
	ktx.FatalIfErrorf(err)
}

func startProfile(mode string) func() {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop
	}
	return func() {}
}

// reportCompileError pretty-prints pipeline errors with a source snippet and
// returns a terse error for the exit path. Errors from outside the pipeline
// pass through untouched.
func reportCompileError(err error, source, path string) error {
	var (
		lexErr *lexer.Error
		synErr *parser.SyntaxError
		genErr *codegen.Error
		d      diag.Diagnostic
	)
	switch {
	case errors.As(err, &lexErr):
		d = lexErr.ToDiagnostic()
	case errors.As(err, &synErr):
		d = synErr.ToDiagnostic()
	case errors.As(err, &genErr):
		d = genErr.ToDiagnostic()
	default:
		return err
	}
	diag.NewFormatter(os.Stderr).Format(d.WithFilename(path), source)
	return fmt.Errorf("compilation of %s failed", path)
}
