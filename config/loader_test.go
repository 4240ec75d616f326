package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sensorfs/sensorfs/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCrossLinksRegistersAndFunctions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registers.yml", `
gain:
  address: "0x0010"
  width: 1
  description: "analog gain"
`)
	writeFile(t, dir, "functions.yml", `
mode:
  addr: "gain[0:4]"
  writable: true
  map:
    "0": off
    "1": "on"
`)
	top := writeFile(t, dir, "sensor.yml", `
model: imx219
registers:
  main:
    channel:
      mode: i2c-cdev
      bus: 1
      address: 54
    map: registers.yml
    functions: functions.yml
`)

	sen, err := config.Load(top)
	if err != nil {
		t.Fatal(err)
	}
	setting, ok := sen.Registers["main"]
	if !ok {
		t.Fatal("missing main register setting")
	}
	if _, ok := setting.Register("gain"); !ok {
		t.Fatal("missing gain register")
	}
	fn, ok := setting.Function("mode")
	if !ok {
		t.Fatal("missing mode function")
	}
	if !fn.Writable {
		t.Error("mode function should be writable")
	}
}

func TestLoadRejectsUnknownChannelMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registers.yml", "{}\n")
	top := writeFile(t, dir, "sensor.yml", `
model: x
registers:
  main:
    channel:
      mode: bogus
    map: registers.yml
`)
	if _, err := config.Load(top); err == nil {
		t.Fatal("expected error for unknown channel mode")
	}
}
