package toolchain_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xyproto/env/v2"

	"github.com/trif-lang/trif/internal/compiler"
	"github.com/trif-lang/trif/internal/toolchain"
)

const program = `fn main() {
    return 40 + 2
}
`

func newToolchain(t *testing.T) (*toolchain.Toolchain, string) {
	t.Helper()

	t.Setenv("TRIF_BUILD_DIR", "")
	// env/v2 caches the process environment; reload so t.Setenv is visible.
	env.Load()

	root := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tc, err := toolchain.New(root, log)
	if err != nil {
		t.Fatalf("toolchain.New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "main.trif"), []byte(program), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return tc, root
}

func TestBuildWritesPerTargetArtifacts(t *testing.T) {
	tc, root := newToolchain(t)

	artifacts, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets:  []compiler.Target{compiler.TargetPython, compiler.TargetJavaScript, compiler.TargetBytecode},
		Optimize: true,
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}

	wantPaths := []string{
		filepath.Join(root, "build", "python", "main.py"),
		filepath.Join(root, "build", "javascript", "main.js"),
		filepath.Join(root, "build", "bytecode", "main.trifc"),
	}
	for i, want := range wantPaths {
		if artifacts[i].Path != want {
			t.Fatalf("artifact %d path = %q, want %q", i, artifacts[i].Path, want)
		}
		data, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("artifact not written: %v", err)
		}
		if len(data) != artifacts[i].Size {
			t.Fatalf("artifact %d size = %d, file has %d bytes", i, artifacts[i].Size, len(data))
		}
	}

	// The constant fold must land in the python artifact.
	data, _ := os.ReadFile(wantPaths[0])
	if !strings.Contains(string(data), "return 42") {
		t.Fatalf("python artifact missing folded constant:\n%s", data)
	}
}

func TestBuildDeduplicatesTargets(t *testing.T) {
	tc, _ := newToolchain(t)

	artifacts, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets: []compiler.Target{compiler.TargetPython, compiler.TargetPython},
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(artifacts))
	}
}

func TestBuildRejectsUnknownTarget(t *testing.T) {
	tc, _ := newToolchain(t)

	_, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets: []compiler.Target{"wasm"},
	})
	if err == nil {
		t.Fatalf("build with unknown target succeeded")
	}
}

func TestBuildMissingSource(t *testing.T) {
	tc, _ := newToolchain(t)

	if _, err := tc.Build("absent.trif", toolchain.BuildOptions{}); err == nil {
		t.Fatalf("build of a missing source succeeded")
	}
}

func TestBuildEncryptsTextTargets(t *testing.T) {
	tc, root := newToolchain(t)

	_, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets:  []compiler.Target{compiler.TargetPython, compiler.TargetBytecode},
		Optimize: true,
		Encrypt:  "secret",
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	encrypted, err := os.ReadFile(filepath.Join(root, "build", "python", "main.py"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if strings.Contains(string(encrypted), "def main") {
		t.Fatalf("encrypted artifact is readable:\n%s", encrypted)
	}
	decoded, err := compiler.DecryptOutput(string(encrypted), "secret")
	if err != nil {
		t.Fatalf("decrypt error: %v", err)
	}
	if !strings.Contains(decoded, "def main") {
		t.Fatalf("decrypted artifact missing program text:\n%s", decoded)
	}

	// Bytecode is a byte target and is never obfuscated.
	raw, err := os.ReadFile(filepath.Join(root, "build", "bytecode", "main.trifc"))
	if err != nil {
		t.Fatalf("read bytecode artifact: %v", err)
	}
	if !strings.Contains(string(raw), "def main") {
		t.Fatalf("bytecode artifact unexpectedly transformed:\n%s", raw)
	}
}

func TestBuildDirFromEnvironment(t *testing.T) {
	tc, root := newToolchain(t)
	t.Setenv("TRIF_BUILD_DIR", "out")
	env.Load()

	artifacts, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets: []compiler.Target{compiler.TargetPython},
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	want := filepath.Join(root, "out", "python", "main.py")
	if artifacts[0].Path != want {
		t.Fatalf("artifact path = %q, want %q", artifacts[0].Path, want)
	}

	// An explicit option wins over the environment.
	artifacts, err = tc.Build("main.trif", toolchain.BuildOptions{
		Targets:  []compiler.Target{compiler.TargetPython},
		BuildDir: "dist",
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if want := filepath.Join(root, "dist", "python", "main.py"); artifacts[0].Path != want {
		t.Fatalf("artifact path = %q, want %q", artifacts[0].Path, want)
	}
}

func TestFormatBuildSummary(t *testing.T) {
	tc, _ := newToolchain(t)

	if got := tc.FormatBuildSummary(nil); got != "No build artifacts were produced." {
		t.Fatalf("empty summary = %q", got)
	}

	artifacts, err := tc.Build("main.trif", toolchain.BuildOptions{
		Targets: []compiler.Target{compiler.TargetPython},
	})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	summary := tc.FormatBuildSummary(artifacts)
	lines := strings.Split(summary, "\n")
	if len(lines) != 3 {
		t.Fatalf("summary has %d lines, want header, rule, and one row:\n%s", len(lines), summary)
	}
	if !strings.HasPrefix(lines[0], "Target") {
		t.Fatalf("summary missing header:\n%s", summary)
	}
	if !strings.Contains(lines[2], filepath.Join("build", "python", "main.py")) {
		t.Fatalf("summary missing relative artifact path:\n%s", summary)
	}
}
