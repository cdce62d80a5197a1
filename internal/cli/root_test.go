package cli

import (
	"bytes"
	"testing"
)

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := NewRootCommand()

	cases := []struct {
		flag string
		want string
	}{
		{"speed", "1"},
		{"speaker", "1"},
		{"output", "output.mp4"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Fatalf("flag %s not registered", tc.flag)
		}
		if f.DefValue != tc.want {
			t.Errorf("flag %s: expected default %s, got %s", tc.flag, tc.want, f.DefValue)
		}
	}

	if cmd.Flags().ShorthandLookup("s") == nil {
		t.Error("speed shorthand -s not registered")
	}
	if cmd.Flags().ShorthandLookup("o") == nil {
		t.Error("output shorthand -o not registered")
	}
}

func TestRootCommandRequiresTwoArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"only-one"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an argument count error")
	}
}

func TestRootCommandMissingInputs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{t.TempDir() + "/no-such-dir", t.TempDir() + "/no-such-file"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an input error for missing paths")
	}
}
