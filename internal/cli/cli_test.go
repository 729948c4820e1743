package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khanglvm/spam-perceptron/internal/config"
)

// workspace is a temp directory with its own config, model, history
// database and corpus index.
type workspace struct {
	dir       string
	config    string
	model     string
	db        string
	indexPath string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	t.Setenv(config.EnvModel, "")
	t.Setenv(config.EnvLogLevel, "")

	dir := t.TempDir()
	ws := &workspace{
		dir:       dir,
		config:    filepath.Join(dir, "config.json"),
		model:     filepath.Join(dir, "model.txt"),
		db:        filepath.Join(dir, "history.db"),
		indexPath: filepath.Join(dir, "corpus.bleve"),
	}

	cfg := fmt.Sprintf(`{
  "keywords": ["free", "money", "meeting"],
  "modelPath": %q,
  "storage": {"enabled": true, "path": %q},
  "index": {"path": %q},
  "log": {"level": "none"}
}`, ws.model, ws.db, ws.indexPath)
	ws.write(t, "config.json", cfg)
	return ws
}

// write creates a file in the workspace and returns its path.
func (ws *workspace) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ws.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// run executes the root command with the workspace config.
func (ws *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return ws.runWithInput(t, "", args...)
}

func (ws *workspace) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--config", ws.config}, args...))

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(input))

	err := cmd.Execute()
	return buf.String(), err
}

// fixedModel writes a model scoring free + money - meeting - 0.5.
func (ws *workspace) fixedModel(t *testing.T) {
	t.Helper()
	ws.write(t, "model.txt", "3 0.1 -0.5\n1 1 -1\n")
}

func (ws *workspace) mail(t *testing.T) (spam, ham string) {
	t.Helper()
	spam = ws.write(t, "mail/spam.txt", "FREE money!! Claim your free prize, money back.")
	ham = ws.write(t, "mail/ham.txt", "Notes from the meeting. Next meeting on Monday.")
	return spam, ham
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "spam-perceptron" {
		t.Errorf("Expected Use='spam-perceptron', got %q", cmd.Use)
	}

	want := []string{"init", "train", "classify", "inspect", "evaluate", "keywords", "history", "search", "version"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"config", "log-level", "keywords", "keywords-file"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not registered", flag)
		}
	}
}

func TestCommandHelp(t *testing.T) {
	tests := []struct {
		command  string
		expected []string
	}{
		{"train", []string{"label:path", "--manifest", "--epochs", "--resume", "--seed"}},
		{"classify", []string{"classify each file", "--model", "--no-record"}},
		{"inspect", []string{"bias", "--model"}},
		{"evaluate", []string{"confusion matrix", "--manifest"}},
		{"keywords", []string{"feature space"}},
		{"history", []string{"--runs", "--limit", "clear"}},
		{"search", []string{"index.path", "--label"}},
		{"init", []string{"--force"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetArgs([]string{tt.command, "--help"})

			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() with --help failed: %v", err)
			}

			output := buf.String()
			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("Help output missing %q", expected)
				}
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q: %s", want, buf.String())
		}
	}
}

func TestInitCommand(t *testing.T) {
	ws := newWorkspace(t)
	ws.config = filepath.Join(ws.dir, "fresh", "spam.yaml")

	out, err := ws.run(t, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Config written") {
		t.Errorf("unexpected output: %s", out)
	}

	cfg, err := config.LoadFrom(ws.config)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if len(cfg.Keywords) != 20 {
		t.Errorf("expected default keyword list, got %v", cfg.Keywords)
	}

	if _, err := ws.run(t, "init"); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if _, err := ws.run(t, "init", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
	if _, err := os.Stat(ws.config + ".bak"); err != nil {
		t.Errorf("init --force should keep a backup: %v", err)
	}
}

func TestKeywordsCommand(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "keywords")
	if err != nil {
		t.Fatalf("keywords failed: %v", err)
	}
	if !strings.Contains(out, "Source: config") || !strings.Contains(out, "Count:  3") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = ws.run(t, "--keywords", "Prize,WINNER", "keywords", "--json")
	if err != nil {
		t.Fatalf("keywords --json failed: %v", err)
	}
	var got struct {
		Source   string   `json:"source"`
		Hash     string   `json:"hash"`
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Source != "flag" || strings.Join(got.Keywords, ",") != "prize,winner" || len(got.Hash) != 64 {
		t.Errorf("unexpected result: %+v", got)
	}
}
