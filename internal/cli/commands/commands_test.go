package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/config"
)

func dataRow(vals ...float64) string {
	var b strings.Builder
	for _, v := range vals {
		fmt.Fprintf(&b, "%10.5f", v)
	}
	return b.String()
}

func channelBlock(channel int) string {
	lines := []string{
		fmt.Sprintf("Corrected accelerogram   Chan  %d: 360 deg  (Sta Chn:  5)", channel),
		"Start time: 4/17/95, 15:09:14.0 UTC",
		"At equally-spaced intervals of  0.010 sec.",
		"       8 points of accel data equally spaced",
		dataRow(1, 2, 3, 4, 5, 6, 7, 8),
		fmt.Sprintf("End of data for channel  %d", channel),
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	if cmd.Use != "convert <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check flags exist
	flags := []string{"output", "input-dir", "output-dir", "format", "workers",
		"write-split", "metrics-addr", "webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewSplitCommand(t *testing.T) {
	cmd := NewSplitCommand()
	if cmd.Use != "split <file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()
	if cmd.Use != "inspect <file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if cmd.Flags().Lookup("output") == nil {
		t.Error("Missing flag: output")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(buf.String(), "cesmd") {
		t.Errorf("Unexpected version output: %q", buf.String())
	}
}

// runConvert registers metrics with the global Prometheus registry, so
// only this test may drive the full convert path.
func TestRunConvert_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, "in")
	outDir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(inDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(inDir, "GOOD.V2"), channelBlock(3))
	writeFile(t, filepath.Join(inDir, "BAD.V2"), "no header here\n")

	configPath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, configPath, "input_dir: "+inDir+"\noutput_dir: "+outDir+"\n")

	ExitCode = 0
	defer func() { ExitCode = 0 }()

	cmd := NewConvertCommand()
	cmd.SetArgs([]string{configPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "GOOD", "channel_003.csv")); err != nil {
		t.Errorf("expected output file: %v", err)
	}

	if !strings.Contains(buf.String(), "Converted 1/2") {
		t.Errorf("Unexpected summary: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "BAD.V2") {
		t.Errorf("Summary missing failure entry: %q", buf.String())
	}

	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1 (batch had failures)", ExitCode)
	}
}

func TestRunConvert_MissingConfig(t *testing.T) {
	cmd := NewConvertCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing config")
	}
}

func TestRunSplit_SingleChannel(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "EVENT.V2")
	writeFile(t, path, channelBlock(1))

	cmd := NewSplitCommand()
	cmd.SetArgs([]string{path})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing to split") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestRunSplit_MultiChannel(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "EVENT.V2")
	writeFile(t, path, channelBlock(1)+channelBlock(2)+channelBlock(3))

	cmd := NewSplitCommand()
	cmd.SetArgs([]string{path})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	for _, ch := range []int{1, 2, 3} {
		split := filepath.Join(tmpDir, fmt.Sprintf("EVENT_chan_%d.V2", ch))
		if _, err := os.Stat(split); err != nil {
			t.Errorf("expected split file %s: %v", split, err)
		}
	}
	if !strings.Contains(buf.String(), "Split 3 channel(s)") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestRunInspect_Text(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "EVENT.V2")
	writeFile(t, path, channelBlock(3))

	cmd := NewInspectCommand()
	cmd.SetArgs([]string{path})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "channel_number") {
		t.Errorf("Missing metadata in output: %q", out)
	}
	if !strings.Contains(out, "accel=8") {
		t.Errorf("Missing sample counts in output: %q", out)
	}
}

func TestRunInspect_JSONMultiChannel(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "EVENT.V2")
	writeFile(t, path, channelBlock(1)+channelBlock(2)+channelBlock(3))

	cmd := NewInspectCommand()
	cmd.SetArgs([]string{"-o", "json", path})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	out := buf.String()
	for _, ch := range []int{1, 2, 3} {
		want := fmt.Sprintf("EVENT.V2#chan%d", ch)
		if !strings.Contains(out, want) {
			t.Errorf("Missing %q in JSON output", want)
		}
	}
}

func TestRunInspect_MarkerCountWithoutHeaders(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "EVENT.V2")

	// Enough marker lines to look multi-channel, but no "Chan n:" header
	// for the splitter to latch onto; the file must be reported as one
	// channel.
	writeFile(t, path, strings.Join([]string{
		"corrected accelerogram data of record",
		"corrected accelerogram data of record",
		"corrected accelerogram data of record",
		"Start time: 4/17/95, 15:09:14.0 UTC",
		"At equally-spaced intervals of  0.010 sec.",
		"       8 points of accel data equally spaced",
		dataRow(1, 2, 3, 4, 5, 6, 7, 8),
		"End of data for channel  1",
	}, "\n")+"\n")

	cmd := NewInspectCommand()
	cmd.SetArgs([]string{path})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "#chan") {
		t.Errorf("File reported as split: %q", out)
	}
	if !strings.Contains(out, "accel=8") {
		t.Errorf("Missing sample counts in output: %q", out)
	}
}

func TestRunValidate_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "EVENT.V2"), channelBlock(1))

	configPath := filepath.Join(tmpDir, "config.yaml")
	writeFile(t, configPath, "input_dir: "+tmpDir+"\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Input files matched: 1") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// missing input_dir
	writeFile(t, configPath, "format: csv\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := &config.Config{
		Webhooks: []config.WebhookConfig{
			{Name: "from-config", URL: "https://example.com/hook"},
		},
	}
	opts := &ConvertOptions{
		WebhookURL:     "https://cli.example.com/hook",
		WebhookTrigger: "always",
	}

	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) != 2 {
		t.Fatalf("len(webhooks) = %d, want 2", len(webhooks))
	}
	if webhooks[1].Name != "cli" {
		t.Errorf("webhooks[1].Name = %q, want cli", webhooks[1].Name)
	}
	if webhooks[1].Trigger != config.WebhookTriggerAlways {
		t.Errorf("webhooks[1].Trigger = %v, want always", webhooks[1].Trigger)
	}
}
