package cli

import (
	"strings"
	"testing"
)

func TestInspect(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "inspect", bracketFixture)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"bracket", "faces", "components", "plane", "cylinder", "convex", "smooth"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Faces\n") {
		t.Error("face listing printed without --faces")
	}
}

func TestInspectFaces(t *testing.T) {
	stdout, _, err := runCLI(t, t.TempDir(), "inspect", bracketFixture, "--faces")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "6/smooth") {
		t.Errorf("neighbor listing missing:\n%s", stdout)
	}
}

func TestInspectMissing(t *testing.T) {
	if _, _, err := runCLI(t, t.TempDir(), "inspect", "missing.json"); err == nil {
		t.Error("missing model accepted")
	}
}
