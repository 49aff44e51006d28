// Package history records device readings to InfluxDB so status flips and
// value updates leave a queryable time series behind the relational state.
package history

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/hollis-dev/homeinv-core/internal/infrastructure/config"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

const (
	connectTimeout = 10 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds
)

// Recorder writes device history points to InfluxDB. Writes are batched
// and non-blocking; all methods are safe for concurrent use.
type Recorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu        sync.RWMutex
	connected bool
	onError   func(err error)
}

// Connect creates a recorder against the configured InfluxDB server and
// verifies connectivity with a ping.
func Connect(cfg config.InfluxDBConfig) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	r := &Recorder{
		client:    client,
		writeAPI:  writeAPI,
		connected: true,
	}

	go r.handleWriteErrors(writeAPI.Errors())

	return r, nil
}

func (r *Recorder) handleWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		r.mu.RLock()
		callback := r.onError
		r.mu.RUnlock()

		if callback != nil {
			callback(err)
		}
	}
}

// SetOnError registers a callback for async write failures.
func (r *Recorder) SetOnError(callback func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = callback
}

// IsConnected reports the last known connection state.
func (r *Recorder) IsConnected() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// RecordStatus records a device's on/off flip as a 0/1 series point.
func (r *Recorder) RecordStatus(device *inventory.Device) {
	if !r.IsConnected() {
		return
	}

	value := 0.0
	if device.StatusOn {
		value = 1.0
	}

	r.writeAPI.WritePoint(write.NewPoint(
		"device_status",
		map[string]string{
			"device_id": strconv.FormatInt(device.ID, 10),
			"type":      device.TypeLabel,
			"room":      device.RoomName,
		},
		map[string]any{"on": value},
		time.Now(),
	))
}

// RecordValue records a device's information reading. Non-numeric
// readings are skipped; the relational row remains the source of truth
// for those.
func (r *Recorder) RecordValue(device *inventory.Device) {
	if !r.IsConnected() {
		return
	}

	value, err := strconv.ParseFloat(device.Information, 64)
	if err != nil {
		return
	}

	r.writeAPI.WritePoint(write.NewPoint(
		"device_values",
		map[string]string{
			"device_id": strconv.FormatInt(device.ID, 10),
			"type":      device.TypeLabel,
			"room":      device.RoomName,
		},
		map[string]any{"value": value},
		time.Now(),
	))
}

// Close flushes pending points and shuts the client down.
func (r *Recorder) Close() {
	if r == nil || r.client == nil {
		return
	}

	r.mu.Lock()
	r.connected = false
	r.mu.Unlock()

	r.writeAPI.Flush()
	r.client.Close()
}
