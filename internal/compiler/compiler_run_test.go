package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"minstral.dev/basicc/internal/compiler"
)

// TestRunIRFreestanding exercises Run end to end for the one command that
// never shells out to mas: CommandIR with Freestanding set, so no stdlib
// file needs to exist on disk either.
func TestRunIRFreestanding(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "prog.mb")
		if err := os.WriteFile(src, []byte("sub main()\n  return 1\nend\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		status, err := compiler.Run(src, compiler.Options{
			Command:      compiler.CommandIR,
			Freestanding: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != 0 {
			t.Fatalf("expected exit status 0, got %d", status)
		}

		out, err := os.ReadFile(filepath.Join(dir, "prog.ir"))
		if err != nil {
			t.Fatalf("expected an IR file to be written: %v", err)
		}
		if len(out) == 0 {
			t.Error("expected non-empty IR text")
		}
	})

	t.Run("Invalid data", func(t *testing.T) {
		status, err := compiler.Run("does-not-exist.mb", compiler.Options{
			Command:      compiler.CommandIR,
			Freestanding: true,
		})
		if err == nil {
			t.Fatal("expected an error for a missing input file")
		}
		if status != 1 {
			t.Errorf("expected exit status 1, got %d", status)
		}
	})
}
