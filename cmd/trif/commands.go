package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/trif-lang/trif/internal/compiler"
	"github.com/trif-lang/trif/internal/docgen"
	"github.com/trif-lang/trif/internal/toolchain"
)

type compileCmd struct {
	Source  string `arg:"" help:"Source file to compile." type:"existingfile"`
	Target  string `help:"Output target." short:"t" enum:"python,javascript,bytecode" default:"python"`
	Output  string `help:"Write the artifact here instead of stdout." short:"o" type:"path"`
	NoOpt   bool   `help:"Disable constant folding."`
	Encrypt string `help:"Obfuscate the output with this passphrase."`
}

func (c *compileCmd) Run(log *slog.Logger) error {
	source, err := os.ReadFile(c.Source)
	if err != nil {
		return err
	}
	target := compiler.Target(c.Target)
	out, err := compiler.New().CompileSource(string(source), target, !c.NoOpt)
	if err != nil {
		return reportCompileError(err, string(source), c.Source)
	}
	if c.Encrypt != "" && target != compiler.TargetBytecode {
		out = []byte(compiler.EncryptOutput(string(out), c.Encrypt))
	}
	if c.Output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(c.Output, out, 0o644); err != nil {
		return err
	}
	log.Info("wrote artifact", "target", c.Target, "path", c.Output, "size", len(out))
	return nil
}

type buildCmd struct {
	Source   string   `arg:"" help:"Source file to build." type:"existingfile"`
	Targets  []string `help:"Targets to build." short:"t" name:"target" enum:"python,javascript,bytecode" default:"python"`
	BuildDir string   `help:"Artifact root directory. Defaults to TRIF_BUILD_DIR, then build."`
	NoOpt    bool     `help:"Disable constant folding."`
	Encrypt  string   `help:"Obfuscate text artifacts with this passphrase."`
}

func (c *buildCmd) Run(log *slog.Logger) error {
	tc, err := toolchain.New("", log)
	if err != nil {
		return err
	}
	targets := make([]compiler.Target, len(c.Targets))
	for i, target := range c.Targets {
		targets[i] = compiler.Target(target)
	}
	artifacts, err := tc.Build(c.Source, toolchain.BuildOptions{
		Targets:  targets,
		Optimize: !c.NoOpt,
		Encrypt:  c.Encrypt,
		BuildDir: c.BuildDir,
	})
	if err != nil {
		source, readErr := os.ReadFile(c.Source)
		if readErr != nil {
			return err
		}
		return reportCompileError(err, string(source), c.Source)
	}
	fmt.Println(tc.FormatBuildSummary(artifacts))
	return nil
}

type encryptCmd struct {
	Input      string `arg:"" help:"Artifact to obfuscate." type:"existingfile"`
	Passphrase string `help:"Obfuscation passphrase." short:"p" required:""`
	Output     string `help:"Write here instead of stdout." short:"o" type:"path"`
}

func (c *encryptCmd) Run(log *slog.Logger) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	return writeResult(log, c.Output, compiler.EncryptOutput(string(data), c.Passphrase))
}

type decryptCmd struct {
	Input      string `arg:"" help:"Obfuscated artifact." type:"existingfile"`
	Passphrase string `help:"Obfuscation passphrase." short:"p" required:""`
	Output     string `help:"Write here instead of stdout." short:"o" type:"path"`
}

func (c *decryptCmd) Run(log *slog.Logger) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	text, err := compiler.DecryptOutput(strings.TrimSpace(string(data)), c.Passphrase)
	if err != nil {
		return err
	}
	return writeResult(log, c.Output, text)
}

func writeResult(log *slog.Logger, output, text string) error {
	if output == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return err
	}
	log.Info("wrote output", "path", output, "size", len(text))
	return nil
}

type docsCmd struct {
	Sources []string `arg:"" help:"Source files to document." type:"existingfile"`
	Output  string   `help:"Directory for generated Markdown." short:"o" default:"docs"`
}

func (c *docsCmd) Run(log *slog.Logger) error {
	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return err
	}
	for _, path := range c.Sources {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		doc, err := docgen.Describe(stem, string(source))
		if err != nil {
			return reportCompileError(err, string(source), path)
		}
		target := filepath.Join(c.Output, stem+".md")
		if err := os.WriteFile(target, []byte(docgen.RenderMarkdown(doc)), 0o644); err != nil {
			return err
		}
		log.Info("wrote documentation", "module", stem, "path", target)
	}
	return nil
}
