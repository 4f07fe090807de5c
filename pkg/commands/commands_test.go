package commands

import (
	"testing"
)

func TestVerbsAreRegistered(t *testing.T) {
	root := New()
	for _, path := range [][]string{
		{"ui"}, {"connect"}, {"status"}, {"history"}, {"lists"},
		{"depart"}, {"return"}, {"arrive"}, {"clear"}, {"report"},
		{"gateway", "serve"}, {"mcp"}, {"info"}, {"version"}, {"completion"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root {
			t.Fatalf("expected %v to resolve, got %v", path, err)
		}
	}
}

func TestConfirmFlagOnDestructiveVerbs(t *testing.T) {
	root := New()
	for _, name := range []string{"depart", "return", "clear"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.Flags().Lookup("yes") == nil {
			t.Fatalf("%s should accept --yes", name)
		}
	}
}

func TestMatchingIsCaseInsensitivePrefix(t *testing.T) {
	got := matching([]string{"Van 02", "van 07", "Truck 1"}, "va")
	if len(got) != 2 || got[0] != "Van 02" || got[1] != "van 07" {
		t.Fatalf("unexpected matches %v", got)
	}
	if got := matching([]string{"Van 02"}, ""); len(got) != 1 {
		t.Fatalf("empty prefix should match everything, got %v", got)
	}
}
