package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

const testPTX = `//
// Generated by NVIDIA NVVM Compiler
//
.version 7.8
.target sm_86
.address_size 64

.extern .shared .align 16 .b8 smem[];

.func  (.param .b32 func_retval0) _Z6squarei(
	.param .b32 _Z6squarei_param_0
)
{
	.reg .b32 %r<3>;
	ld.param.u32 %r1, [_Z6squarei_param_0];
	mul.lo.s32 %r2, %r1, %r1;
	st.param.b32 [func_retval0+0], %r2;
	ret;
}

.visible .entry _Z6kernelPfS_i(
	.param .u64 _Z6kernelPfS_i_param_0,
	.param .u64 _Z6kernelPfS_i_param_1,
	.param .u32 _Z6kernelPfS_i_param_2
)
{
	ret;
}
`

// writePTX writes content into a fresh directory and returns the file path
func writePTX(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ptx")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

// runCommand executes the root command with fresh flag state
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	configPath = ""
	for _, c := range []*cobra.Command{rootCmd, parseCmd, extractCmd, formatCmd} {
		resetFlags(c.Flags())
		resetFlags(c.PersistentFlags())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestParseHumanOutput(t *testing.T) {
	path := writePTX(t, testPTX)

	out, _, err := runCommand(t, "parse", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	expected := []string{
		"PTX version: 7.8",
		"Target: sm_86",
		"global: smem",
		"Space: .shared [.extern]",
		"function: _Z6squarei",
		"kernel: _Z6kernelPfS_i",
		"Parameters (20 bytes):",
		"Functions: 2 (1 kernels)",
		"Globals: 1",
	}
	for _, snippet := range expected {
		if !strings.Contains(out, snippet) {
			t.Errorf("Expected output to contain %q\n%s", snippet, out)
		}
	}
	if strings.Contains(out, "mul.lo.s32") {
		t.Error("Expected bodies to be hidden by default")
	}
}

func TestParseJSONOutput(t *testing.T) {
	path := writePTX(t, testPTX)

	out, _, err := runCommand(t, "parse", "--format", "json", "--bodies", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var module outputModule
	if err := json.Unmarshal([]byte(out), &module); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out)
	}
	if module.Version != "7.8" || module.AddressSize != 64 {
		t.Errorf("Unexpected preamble in %+v", module)
	}
	if len(module.Declarations) != 3 {
		t.Fatalf("Expected 3 declarations, got %d", len(module.Declarations))
	}

	kernel := module.Declarations[2]
	if kernel.Kind != "function" || !kernel.Entry || !kernel.Visible {
		t.Errorf("Unexpected kernel %+v", kernel)
	}
	if len(kernel.Parameters) != 3 || kernel.Parameters[2].Offset != 16 {
		t.Errorf("Unexpected kernel parameters %+v", kernel.Parameters)
	}
	if !strings.Contains(module.Declarations[1].Body, "mul.lo.s32") {
		t.Error("Expected body in JSON output")
	}
}

func TestParseYAMLFromConfig(t *testing.T) {
	path := writePTX(t, testPTX)
	config := "format: yaml\nexclude:\n  - smem\n  - _Z6square*\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), configFileName), []byte(config), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, _, err := runCommand(t, "parse", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var module outputModule
	if err := yaml.Unmarshal([]byte(out), &module); err != nil {
		t.Fatalf("Invalid YAML output: %v\n%s", err, out)
	}
	if len(module.Declarations) != 1 || module.Declarations[0].Name != "_Z6kernelPfS_i" {
		t.Errorf("Expected only the kernel after exclusions, got %+v", module.Declarations)
	}

	out, _, err = runCommand(t, "parse", "-f", "human", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(out, "Parsed file:") {
		t.Error("Expected --format flag to override the config file")
	}
}

func TestParseMalformedConfigWarns(t *testing.T) {
	path := writePTX(t, testPTX)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), configFileName), []byte("exclude: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, errOut, err := runCommand(t, "parse", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !strings.Contains(errOut, "Warning: Failed to parse") {
		t.Errorf("Expected a warning, got %q", errOut)
	}
	if !strings.Contains(out, "Globals: 1") {
		t.Error("Expected defaults to be used")
	}
}

func TestParseExplicitConfigMissing(t *testing.T) {
	path := writePTX(t, testPTX)
	_, _, err := runCommand(t, "parse", "--config", filepath.Join(t.TempDir(), "missing.yaml"), path)
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("Expected config read error, got %v", err)
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	path := writePTX(t, ".version 7.0\n.func f(\n\t.param .pred p\n)\n;\n")

	_, _, err := runCommand(t, "parse", path)
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), `unknown type ".pred" at 3:2`) {
		t.Errorf("Unexpected error message %q", err.Error())
	}
}

func TestParseUnknownFormat(t *testing.T) {
	path := writePTX(t, testPTX)
	if _, _, err := runCommand(t, "parse", "-f", "xml", path); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestExtract(t *testing.T) {
	path := writePTX(t, testPTX)

	out, _, err := runCommand(t, "extract", path, "smem")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if out != ".extern .shared .align 16 .b8 smem[];\n" {
		t.Errorf("Unexpected extract output %q", out)
	}

	out, _, err = runCommand(t, "extract", "--standalone", path, "_Z6kernelPfS_i")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.HasPrefix(out, ".version 7.8\n.target sm_86\n.address_size 64\n\n.visible .entry _Z6kernelPfS_i(") {
		t.Errorf("Unexpected standalone output %q", out)
	}

	if _, _, err := runCommand(t, "extract", path, "missing"); err == nil {
		t.Error("Expected error for missing declaration")
	}
}

func TestFormat(t *testing.T) {
	path := writePTX(t, testPTX)

	out, _, err := runCommand(t, "format", "--indent", "2", path)
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if strings.Contains(out, "Generated by NVIDIA") {
		t.Error("Expected top-level comments to be dropped")
	}
	if !strings.Contains(out, ".func (.param .b32 func_retval0) _Z6squarei(\n  .param .b32 _Z6squarei_param_0\n)") {
		t.Errorf("Unexpected formatted signature\n%s", out)
	}
	if !strings.Contains(out, "\tmul.lo.s32 %r2, %r1, %r1;") {
		t.Error("Expected body to be kept verbatim")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "ptxparse") || !strings.Contains(out, "Commit:") {
		t.Errorf("Unexpected version output %q", out)
	}
}
