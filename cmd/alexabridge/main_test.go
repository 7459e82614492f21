package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

const testItems = `
living:
  lamp:
    name: Living room lamp
    alexa_actions: turnOn turnOff
    alexa_alias: Reading light
  dimmer:
    alexa_device: lamp_dimmer
    alexa_name: Dimmer
    alexa_actions: setPercentage
    alexa_item_range: "0 - 255"
  note:
    name: Not exposed
`

// writeTestConfig writes a config and item tree into a temp dir and returns
// the config path.
func writeTestConfig(t *testing.T, items string, port int) string {
	t.Helper()
	dir := t.TempDir()

	itemsPath := filepath.Join(dir, "items.yaml")
	if err := os.WriteFile(itemsPath, []byte(items), 0o600); err != nil {
		t.Fatalf("writing items: %v", err)
	}

	cfg := fmt.Sprintf(`
site:
  id: test-site
items:
  path: %q
service:
  host: 127.0.0.1
  port: %d
mqtt:
  enabled: false
influxdb:
  enabled: false
logging:
  level: error
  format: text
  output: stderr
`, itemsPath, port)

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return cfgPath
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(configEnvVar, "")
	if got := getConfigPath(""); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want default", got)
	}

	t.Setenv(configEnvVar, "/etc/alexa.yaml")
	if got := getConfigPath(""); got != "/etc/alexa.yaml" {
		t.Errorf("getConfigPath() = %q, want env value", got)
	}
	if got := getConfigPath("flag.yaml"); got != "flag.yaml" {
		t.Errorf("getConfigPath(flag) = %q, want flag value", got)
	}
}

func TestRunCheck(t *testing.T) {
	var out bytes.Buffer
	if err := runCheck(writeTestConfig(t, testItems, 9000), &out); err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	if !strings.Contains(out.String(), "catalogue ok: 3 devices (1 aliases)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunCheck_ValidationFailure(t *testing.T) {
	// A device named through alexa_name but with no actions fails validation.
	items := `
hall:
  light:
    alexa_device: hall_light
    alexa_name: Hall
`
	err := runCheck(writeTestConfig(t, items, 9000), &bytes.Buffer{})
	if err == nil {
		t.Fatal("runCheck() should fail validation")
	}
	if !strings.Contains(err.Error(), catalogue.ErrValidationFailed.Error()) {
		t.Errorf("runCheck() error = %v, want validation failure", err)
	}
}

func TestRunCheck_InvalidConfig(t *testing.T) {
	if err := runCheck("/nonexistent/path/config.yaml", &bytes.Buffer{}); err == nil {
		t.Fatal("runCheck() should fail with invalid config path")
	}
}

func TestRunCheck_MissingItems(t *testing.T) {
	cfgPath := writeTestConfig(t, testItems, 9000)
	if err := os.Remove(filepath.Join(filepath.Dir(cfgPath), "items.yaml")); err != nil {
		t.Fatal(err)
	}
	err := runCheck(cfgPath, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "loading items") {
		t.Errorf("runCheck() error = %v, want items load failure", err)
	}
}

func TestRunDevices_Table(t *testing.T) {
	var out bytes.Buffer
	if err := runDevices(writeTestConfig(t, testItems, 9000), &out, false); err != nil {
		t.Fatalf("runDevices() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 devices:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(out.String(), "lamp_dimmer") || !strings.Contains(out.String(), "setPercentage") {
		t.Errorf("table missing dimmer:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Reading light") {
		t.Errorf("table missing alias device:\n%s", out.String())
	}
}

func TestRunDevices_JSON(t *testing.T) {
	var out bytes.Buffer
	if err := runDevices(writeTestConfig(t, testItems, 9000), &out, true); err != nil {
		t.Fatalf("runDevices() error = %v", err)
	}

	var summaries []device.Summary
	if err := json.Unmarshal(out.Bytes(), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d devices, want 3", len(summaries))
	}
	if summaries[2].AliasOf == "" {
		t.Errorf("last device = %+v, want alias", summaries[2])
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "alexabridge dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCheckCommand_ConfigFlag(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", "--config", writeTestConfig(t, testItems, 9000)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "catalogue ok") {
		t.Errorf("check output = %q", out.String())
	}
}

func TestRunServe(t *testing.T) {
	port := freePort(t)
	cfgPath := writeTestConfig(t, testItems, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- runServe(ctx, cfgPath) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/devices/lamp_dimmer", port)
	var resp *http.Response
	var err error
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); time.Sleep(50 * time.Millisecond) {
		if resp, err = http.Get(url); err == nil {
			break
		}
	}
	if err != nil {
		t.Fatalf("service never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET device status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runServe() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("runServe() did not return after cancellation")
	}
}

func TestRunServe_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := runServe(ctx, "/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("runServe() should fail with invalid config path")
	}
}
