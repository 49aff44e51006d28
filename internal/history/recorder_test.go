package history_test

import (
	"errors"
	"testing"

	"github.com/hollis-dev/homeinv-core/internal/history"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/config"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "homeinv-dev-token",
		Org:           "homeinv",
		Bucket:        "history",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

func TestConnectDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := history.Connect(cfg)
	if !errors.Is(err, history.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999"

	_, err := history.Connect(cfg)
	if !errors.Is(err, history.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestRecorderNilSafe(t *testing.T) {
	// A nil recorder stands in when history is disabled; every method
	// must be a no-op.
	var r *history.Recorder

	if r.IsConnected() {
		t.Error("IsConnected() = true on nil recorder")
	}
	r.RecordStatus(&inventory.Device{ID: 1, StatusOn: true})
	r.RecordValue(&inventory.Device{ID: 1, Information: "21.5"})
	r.Close()
}
