// homeinv-core is the home inventory service.
//
// It manages people, rooms, device types, and devices behind a role-scoped
// REST API, announces device state over MQTT and WebSocket, and records
// value history to InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/hollis-dev/homeinv-core/migrations"

	"github.com/hollis-dev/homeinv-core/internal/api"
	"github.com/hollis-dev/homeinv-core/internal/audit"
	"github.com/hollis-dev/homeinv-core/internal/guard"
	"github.com/hollis-dev/homeinv-core/internal/history"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/config"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/database"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/logging"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/mqtt"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
	"github.com/hollis-dev/homeinv-core/internal/scope"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting homeinv-core", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	people := inventory.NewSQLitePersonRepository(db.DB)
	rooms := inventory.NewSQLiteRoomRepository(db.DB)
	types := inventory.NewSQLiteDeviceTypeRepository(db.DB)
	devices := inventory.NewSQLiteDeviceRepository(db.DB)

	// First boot gets an admin account with a generated password.
	if _, seedErr := inventory.SeedAdmin(ctx, people, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin account: %w", seedErr)
	}

	// MQTT state announcements (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			"client_id", cfg.MQTT.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Device value history (optional)
	var recorder *history.Recorder
	if cfg.InfluxDB.Enabled {
		recorder, err = history.Connect(cfg.InfluxDB)
		if err != nil {
			if errors.Is(err, history.ErrDisabled) {
				recorder = nil
			} else {
				return fmt.Errorf("connecting to InfluxDB: %w", err)
			}
		} else {
			defer func() {
				log.Info("closing history recorder")
				recorder.Close()
			}()
			recorder.SetOnError(func(err error) {
				log.Error("history write error", "error", err)
			})
			log.Info("history recorder connected",
				"url", cfg.InfluxDB.URL,
				"bucket", cfg.InfluxDB.Bucket,
			)
		}
	} else {
		log.Info("history recorder disabled")
	}

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Security:  cfg.Security,
		Logger:    log,
		People:    people,
		Rooms:     rooms,
		Types:     types,
		Devices:   devices,
		Guard:     guard.New(people, rooms, types, devices),
		Resolver:  scope.NewResolver(devices, rooms, people),
		Router:    scope.NewRouter(people),
		AuditRepo: audit.NewSQLiteRepository(db.DB),
		MQTT:      mqttClient,
		History:   recorder,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	<-ctx.Done()
	log.Info("shutdown signal received")

	return nil
}

// getConfigPath returns the config file path from the HOMEINV_CONFIG
// environment variable, or the default.
func getConfigPath() string {
	if path := os.Getenv("HOMEINV_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
