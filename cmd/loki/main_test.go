package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

func TestCodeError(t *testing.T) {
	err := codeError(4, "building registry: %s", "boom")
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitErr, got %T", err)
	}
	if ee.code != 4 {
		t.Errorf("code = %d, want 4", ee.code)
	}
	if ee.Error() != "building registry: boom" {
		t.Errorf("msg = %q", ee.Error())
	}
}

func TestBuildRegistry(t *testing.T) {
	reg, err := buildRegistry("")
	if err != nil {
		t.Fatalf("builtin-only registry: %v", err)
	}
	if len(reg.Rules()) == 0 {
		t.Error("builtin registry has no rules")
	}

	dir := t.TempDir()
	extra := `name: extra
rules:
  - id: custom-fix
    kind: regex
    level: lexical
    gates: ["custom:gate"]
    pattern: foo
    replacement: bar
`
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}
	combined, err := buildRegistry(dir)
	if err != nil {
		t.Fatalf("combined registry: %v", err)
	}
	if len(combined.Rules()) != len(reg.Rules())+1 {
		t.Errorf("combined rules = %d, want %d", len(combined.Rules()), len(reg.Rules())+1)
	}

	if _, err := buildRegistry(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing catalog dir")
	}
}

func TestLoadOrgDefaultsWithoutPath(t *testing.T) {
	org, err := loadOrg("")
	if err != nil {
		t.Fatal(err)
	}
	if org.CompanyName == "" {
		t.Error("default org profile is empty")
	}
}

func TestWriteReport(t *testing.T) {
	result := &schema.CorrectionResult{
		CorrectedText: "ok",
		DocumentType:  schema.DocFinancial,
		ContentHash:   "sha256:x",
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	if err := writeReport(result, "json", out); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded schema.CorrectionResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.CorrectedText != "ok" {
		t.Errorf("corrected_text = %q", decoded.CorrectedText)
	}

	err = writeReport(result, "xml", "")
	var ee *exitErr
	if !errors.As(err, &ee) || ee.code != 3 {
		t.Errorf("expected exit code 3 for bad format, got %v", err)
	}
}

func TestCorrectCommandFlags(t *testing.T) {
	cmd := newCorrectCmd()
	for _, name := range []string{"findings", "type", "multi-level", "context-aware", "format", "out", "corrected-out", "patch-out", "org", "rules", "strict", "verbose"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("correct command missing --%s", name)
		}
	}
	if !strings.Contains(cmd.Use, "correct") {
		t.Errorf("Use = %q", cmd.Use)
	}
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := newWatchCmd()
	for _, name := range []string{"findings", "type", "multi-level", "context-aware", "corrected-out", "org", "rules", "verbose"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("watch command missing --%s", name)
		}
	}
}

func TestMultiLevelDefaultsOffEverywhere(t *testing.T) {
	// Single-pass is the documented default; watch must not diverge from
	// correct.
	for _, tc := range []struct {
		name string
		c    interface{ Flags() *pflag.FlagSet }
	}{
		{"correct", newCorrectCmd()},
		{"watch", newWatchCmd()},
	} {
		f := tc.c.Flags().Lookup("multi-level")
		if f == nil {
			t.Fatalf("%s command missing --multi-level", tc.name)
		}
		if f.DefValue != "false" {
			t.Errorf("%s --multi-level default = %q, want %q", tc.name, f.DefValue, "false")
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, cmd := range []struct {
		name string
		c    interface{ Name() string }
	}{
		{"watch", newWatchCmd()},
		{"rules", newRulesCmd()},
	} {
		if cmd.c.Name() != cmd.name {
			t.Errorf("command name = %q, want %q", cmd.c.Name(), cmd.name)
		}
	}
}
