package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "landing" {
		t.Errorf("expected Use='landing', got %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Short and Long should not be empty")
	}

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"ab", "roi", "version"} {
		if !names[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "verbose", "timeout", "server", "visitor", "console-token"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag %q should exist", name)
		}
	}
	if f := cmd.PersistentFlags().Lookup("output"); f.DefValue != "text" {
		t.Errorf("expected output default 'text', got %q", f.DefValue)
	}
	if f := cmd.PersistentFlags().ShorthandLookup("c"); f == nil || f.Name != "config" {
		t.Error("expected -c shorthand for --config")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "landing "+Version) {
		t.Errorf("unexpected version output: %q", out.String())
	}
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	if _, err := GetCLIContext(cmd); err == nil {
		t.Error("expected error without context")
	}
}

func TestInitLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if _, err := initLogger(&RootOptions{LogLevel: level}); err != nil {
			t.Errorf("level %q: %v", level, err)
		}
	}
}

type tableData struct{}

func (tableData) TableHeaders() []string { return []string{"A", "LONG"} }
func (tableData) TableRows() [][]string  { return [][]string{{"xyz", "1"}, {"q"}} }

func TestFormatTable(t *testing.T) {
	out := FormatTable(tableData{}.TableHeaders(), tableData{}.TableRows())
	for _, cell := range []string{"A", "LONG", "xyz", "1", "q"} {
		if !strings.Contains(out, cell) {
			t.Errorf("missing %q in %q", cell, out)
		}
	}
	assertAligned(t, out)
	if FormatTable(nil, nil) != "" {
		t.Error("no headers should render nothing")
	}
}

// assertAligned checks every rendered line has the same width in runes.
func assertAligned(t *testing.T, out string) {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected a table, got %q", out)
	}
	want := len([]rune(lines[0]))
	for _, l := range lines[1:] {
		if got := len([]rune(l)); got != want {
			t.Errorf("line %q is %d runes wide, want %d", l, got, want)
		}
	}
}

func TestPrintResult_FallsBackToJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := PrintResult(cmd, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"a": 1`) {
		t.Errorf("expected JSON output, got %q", out.String())
	}
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, nil)
	if errOut.Len() != 0 {
		t.Error("nil error should print nothing")
	}
	PrintError(cmd, errors.New("boom"))
	if errOut.String() != "Error: boom\n" {
		t.Errorf("got %q", errOut.String())
	}
}

func TestPrintError_AppErrorShowsCode(t *testing.T) {
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, apperrors.New(apperrors.ErrCodeTestNotFound, "unknown test").WithDetail("hero"))
	want := "Error [" + string(apperrors.ErrCodeTestNotFound) + "]: unknown test (hero)\n"
	if errOut.String() != want {
		t.Errorf("got %q, want %q", errOut.String(), want)
	}
}

func TestFormatTable_CountsRunes(t *testing.T) {
	out := FormatTable([]string{"VARIANT", "TEXT"}, [][]string{{"free-audit", "Бесплатный аудит"}, {"x", "ok"}})
	if !strings.Contains(out, "Бесплатный аудит") {
		t.Fatalf("cyrillic cell lost: %q", out)
	}
	assertAligned(t, out)
}

func TestParseOutputFormat(t *testing.T) {
	for _, ok := range []string{"", "text", "JSON", "table"} {
		if _, err := parseOutputFormat(ok); err != nil {
			t.Errorf("%q: %v", ok, err)
		}
	}
	if _, err := parseOutputFormat("yaml"); err == nil {
		t.Error("yaml should be rejected")
	}
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ab", "catalog", "-o", "yaml"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for -o yaml")
	}
}

//Personal.AI order the ending
