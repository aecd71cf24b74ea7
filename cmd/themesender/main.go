// Command theme-sender publishes the current UI theme to MQTT.
//
// The theme follows the sun: each solar phase (night, the three twilights,
// sunrise, day and their dusk mirrors) maps to a theme value which is
// published on a fixed interval. Operators can override the value over MQTT
// until the next solar boundary, or revert it early.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/neiam/theme-sender/internal/api"
	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/history"
	"github.com/neiam/theme-sender/internal/infrastructure/config"
	"github.com/neiam/theme-sender/internal/infrastructure/database"
	"github.com/neiam/theme-sender/internal/infrastructure/influxdb"
	"github.com/neiam/theme-sender/internal/infrastructure/logging"
	"github.com/neiam/theme-sender/internal/infrastructure/mqtt"
	"github.com/neiam/theme-sender/internal/override"
	"github.com/neiam/theme-sender/internal/publisher"
	"github.com/neiam/theme-sender/internal/resolver"
	"github.com/neiam/theme-sender/internal/solar"
	"github.com/neiam/theme-sender/internal/telemetry"
	"github.com/neiam/theme-sender/migrations"
)

// Version information, set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const serviceName = "theme-sender"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, wires every component and blocks until ctx is cancelled
// or a component fails.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stdout)
	flags := config.BindFlags(fs)
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *showVersion {
		fmt.Fprintf(stdout, "%s %s (commit %s, built %s)\n", serviceName, version, commit, date)
		return nil
	}

	cfg, err := config.Load(flags.ConfigPath(), flags)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, serviceName, version)
	log.Info("starting theme sender",
		"commit", commit,
		"build_date", date,
		"config", flags.ConfigPath(),
	)

	tz, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading time zone: %w", err)
	}

	loc, err := locate(ctx, cfg, log)
	if err != nil {
		return err
	}

	calc := solar.SunCalculator{}
	compute := func(day time.Time) (solar.Schedule, error) {
		return solar.Compute(calc, loc, day)
	}
	sched, err := compute(time.Now().In(tz))
	if err != nil {
		return fmt.Errorf("computing solar schedule: %w", err)
	}
	resolver.LogSchedule(log, sched)

	res := resolver.New(sched, compute, tz)
	res.SetLogger(log.Component("resolver"))

	topics := mqtt.NewTopics(cfg.MQTT.Topics)
	mqttClient, err := mqtt.Connect(cfg.MQTT, mqtt.WithStatusTopic(topics.Status()))
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log.Component("mqtt"))
	mqttClient.SetOnConnect(func() { log.Info("MQTT connected") })
	mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
	log.Info("MQTT connected",
		"broker", mqtt.BrokerURL(cfg.MQTT.Broker),
		"client_id", mqttClient.ClientID(),
	)

	qos := byte(cfg.MQTT.QoS) //nolint:gosec // validated to 0..2
	mailbox := override.NewMailbox()

	listener := override.NewListener(mqttClient, mailbox, topics.Override(), topics.Revert(), qos)
	listener.SetLogger(log.Component("listener"))

	loop := publisher.New(publisher.Config{
		Topic:              topics.Theme(),
		QoS:                qos,
		Retained:           cfg.MQTT.Retain,
		Interval:           cfg.PublishInterval(),
		ImmediateOnCommand: cfg.Publish.ImmediateOnCommand,
		Resolver:           res,
		Mailbox:            mailbox,
		Publisher:          mqttClient,
	})
	loop.SetLogger(log.Component("publisher"))

	var (
		historyRepo history.Repository
		dbCheck     api.HealthChecker
		influxCheck api.HealthChecker
	)
	if cfg.Database.Enabled {
		db, dbErr := openHistory(ctx, cfg.Database, log)
		if dbErr != nil {
			return dbErr
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		repo := history.NewSQLiteRepository(db.DB)
		historyRepo = repo
		dbCheck = db
		loop.AddObserver(history.NewRecorder(repo, log.Component("history")))
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Warn("InfluxDB write error", "error", err)
		})
		loop.AddObserver(telemetry.NewObserver(influxClient))
		influxCheck = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Security: cfg.Security,
			Logger:   log.Component("api"),
			State:    res,
			Location: loc,
			History:  historyRepo,
			MQTT:     mqttClient,
			Database: dbCheck,
			InfluxDB: influxCheck,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		loop.AddObserver(apiServer)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Run(gctx) })
	g.Go(func() error { return loop.Run(gctx) })
	if apiServer != nil {
		g.Go(func() error { return apiServer.Run(gctx) })
	}

	err = g.Wait()
	log.Info("theme sender stopped")
	return err
}

// locate returns the configured location, or asks the geolocation service.
func locate(ctx context.Context, cfg *config.Config, log *logging.Logger) (geolocation.Location, error) {
	var provider geolocation.Provider
	source := "config"
	if l := cfg.Site.Location; l != nil {
		provider = geolocation.Static{Latitude: l.Latitude, Longitude: l.Longitude}
	} else {
		provider = geolocation.NewIPAPI(cfg.Geolocation.URL, time.Duration(cfg.Geolocation.Timeout)*time.Second)
		source = cfg.Geolocation.URL
	}

	loc, err := provider.Locate(ctx)
	if err != nil {
		return geolocation.Location{}, fmt.Errorf("determining location: %w", err)
	}
	log.Info("location resolved",
		"latitude", loc.Latitude,
		"longitude", loc.Longitude,
		"source", source,
	)
	return loc, nil
}

func openHistory(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("theme history enabled", "path", db.Path())
	return db, nil
}
