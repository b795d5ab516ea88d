package compiler

import "testing"

// TestUppercaseASCII covers compile.c's byte-wise upcase scan: only plain
// ASCII letters shift, punctuation and digits pass through untouched.
func TestUppercaseASCII(t *testing.T) {
	test := func(in, want string) {
		if got := uppercaseASCII(in); got != want {
			t.Errorf("uppercaseASCII(%q) = %q, want %q", in, got, want)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("load @acc, 1\n", "LOAD @ACC, 1\n")
		test("", "")
		test("_main dsr\n", "_MAIN DSR\n")
	})
}

// TestReplaceExtension covers the outasm/outir path derivation: the
// original extension is dropped in favor of the one requested.
func TestReplaceExtension(t *testing.T) {
	test := func(path, ext, want string) {
		if got := replaceExtension(path, ext); got != want {
			t.Errorf("replaceExtension(%q, %q) = %q, want %q", path, ext, got, want)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("prog.mb", "min", "prog.min")
		test("dir/prog.mb", "ir", "dir/prog.ir")
	})

	t.Run("Invalid data", func(t *testing.T) {
		// A leading dot with no other dot in the name isn't treated as an
		// extension (dot > 0 guards against it), so the whole name is kept.
		test(".mbrc", "min", ".mbrc.min")
	})
}
