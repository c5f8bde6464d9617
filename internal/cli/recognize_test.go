package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fio "github.com/matzehuels/facetower/pkg/io"
	"github.com/matzehuels/facetower/pkg/pipeline"
)

const bracketFixture = "../../examples/models/bracket.json"

// copyFixture copies the bracket model into a fresh directory so commands
// can write their artifacts next to it.
func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(bracketFixture)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "bracket.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the command tree with a private file cache and returns
// what was written to stdout and stderr.
func runCLI(t *testing.T, cacheDir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRoot(New(&stderr, LogInfo))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--cache-dir", cacheDir}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readReport(t *testing.T, path string) *fio.Report {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, err := fio.ReadReport(f)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRecognizeWritesReport(t *testing.T) {
	model := copyFixture(t)
	_, stderr, err := runCLI(t, t.TempDir(), "recognize", model)
	if err != nil {
		t.Fatal(err)
	}

	out := strings.TrimSuffix(model, ".json") + ".report.json"
	r := readReport(t, out)
	if len(r.Holes) != 1 || len(r.Chains) != 1 {
		t.Errorf("holes=%d chains=%d, want 1 and 1", len(r.Holes), len(r.Chains))
	}
	if !strings.Contains(stderr, out) {
		t.Errorf("written file not listed:\n%s", stderr)
	}
	if !strings.Contains(stderr, "1 chains") {
		t.Errorf("summary missing:\n%s", stderr)
	}
}

func TestRecognizeStdout(t *testing.T) {
	model := copyFixture(t)
	stdout, _, err := runCLI(t, t.TempDir(), "recognize", model, "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "graph G {") {
		t.Errorf("stdout is not DOT: %.40q", stdout)
	}
	if _, err := os.Stat(strings.TrimSuffix(model, ".json") + ".dot"); !os.IsNotExist(err) {
		t.Error("artifact was written to disk as well as stdout")
	}
}

func TestRecognizeMultipleFormats(t *testing.T) {
	model := copyFixture(t)
	base := filepath.Join(t.TempDir(), "out")
	if _, _, err := runCLI(t, t.TempDir(), "recognize", model, "-f", "json,dot", "-o", base+".dot"); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{base + ".report.json", base + ".dot"} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing artifact %s: %v", path, err)
		}
	}
}

func TestRecognizeConfig(t *testing.T) {
	model := copyFixture(t)
	config := filepath.Join(t.TempDir(), "facetower.toml")
	body := "model = \"" + model + "\"\nmax_blend_radius = 0.5\nskip_holes = true\n"
	if err := os.WriteFile(config, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	report := strings.TrimSuffix(model, ".json") + ".report.json"

	if _, _, err := runCLI(t, t.TempDir(), "recognize", "--config", config); err != nil {
		t.Fatal(err)
	}
	r := readReport(t, report)
	if len(r.Holes) != 0 || len(r.Chains) != 0 {
		t.Errorf("config ignored: holes=%d chains=%d", len(r.Holes), len(r.Chains))
	}

	if _, _, err := runCLI(t, t.TempDir(), "recognize", "--config", config, "--max-blend-radius", "5"); err != nil {
		t.Fatal(err)
	}
	r = readReport(t, report)
	if len(r.Holes) != 0 {
		t.Errorf("config skip_holes lost when a flag was set: %d holes", len(r.Holes))
	}
	if len(r.Chains) == 0 {
		t.Error("--max-blend-radius did not override the config")
	}
}

func TestRenderDefaultsToSVG(t *testing.T) {
	model := copyFixture(t)
	if _, _, err := runCLI(t, t.TempDir(), "render", model, "--detailed"); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(strings.TrimSuffix(model, ".json") + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("not SVG: %.80s", svg)
	}
}

func TestRecognizeMetrics(t *testing.T) {
	model := copyFixture(t)
	metrics := filepath.Join(t.TempDir(), "metrics.prom")
	if _, _, err := runCLI(t, t.TempDir(), "recognize", model, "--no-cache", "--metrics", metrics); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`facetower_pipeline_passes_total{pass="drill-hole",status="ok"} 1`,
		"facetower_pipeline_chains_total 1",
		"# TYPE facetower_oracle_queries_total counter",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestRecognizeErrors(t *testing.T) {
	model := copyFixture(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no model", []string{"recognize"}},
		{"missing model", []string{"recognize", filepath.Join(t.TempDir(), "nope.json")}},
		{"stdout with two formats", []string{"recognize", model, "-f", "json,dot", "-o", "-"}},
		{"bad format", []string{"recognize", model, "-f", "pdf"}},
		{"bad seed", []string{"recognize", model, "--seeds", "99"}},
		{"missing config", []string{"recognize", model, "--config", "missing.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, t.TempDir(), tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, model, format string
		single                bool
		want                  string
	}{
		{"", "parts/bracket.json", pipeline.FormatJSON, true, "parts/bracket.report.json"},
		{"", "parts/bracket.yaml", pipeline.FormatSVG, true, "parts/bracket.svg"},
		{"graph.svg", "bracket.json", pipeline.FormatSVG, true, "graph.svg"},
		{"out/b", "bracket.json", pipeline.FormatDOT, false, "out/b.dot"},
		{"out/b.report.json", "bracket.json", pipeline.FormatSVG, false, "out/b.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.model, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.output, tt.model, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestWatchFile(t *testing.T) {
	watchDebounce = 10 * time.Millisecond
	t.Cleanup(func() { watchDebounce = 150 * time.Millisecond })

	path := copyFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, New(&bytes.Buffer{}, LogInfo).Logger, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep touching the file until the watcher reports it; the watch may
	// not be registered yet on the first write.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for waiting := true; waiting; {
		select {
		case <-changed:
			waiting = false
		case <-tick.C:
			if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("change was not reported")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchFile() = %v", err)
	}
}
