package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/openfms/sbd-device/api"
	"github.com/openfms/sbd-device/assign"
	"github.com/openfms/sbd-device/cache"
	flightdb "github.com/openfms/sbd-device/db/clickhouse"
	"github.com/openfms/sbd-device/envconfig"
	"github.com/openfms/sbd-device/packetlog"
	"github.com/openfms/sbd-device/server"
	"github.com/openfms/sbd-device/simulator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	HostAddress string
	PortNumber  uint

	SimulatorHostAddr string
	ModemIMEI         string
	SendInterval      time.Duration
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("create new logger failed:%v\n", err)
	}
	randomIMEI := generateRandomIMEI()
	app := &cli.App{
		Name:  "sbdsrv",
		Usage: "iridium sbd ingest server",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "starts server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "host",
						Usage:       "host address",
						Value:       "0.0.0.0",
						DefaultText: "0.0.0.0",
						Destination: &HostAddress,
						EnvVars:     []string{"HOST"},
					},
					&cli.UintFlag{
						Name:        "port",
						Usage:       "sbd server port number",
						Value:       10800,
						DefaultText: "10800",
						Aliases:     []string{"p"},
						Destination: &PortNumber,
						EnvVars:     []string{"PORT"},
					},
				},
				Action: func(ctx *cli.Context) error {
					cfg, err := envconfig.ReadSBDServiceEnv()
					if err != nil {
						return err
					}
					cfg.Host, cfg.Port = HostAddress, PortNumber
					return runServer(cfg)
				},
			},
			{
				Name:  "simulator",
				Usage: "starts sbd modem simulator",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "host",
						Usage:       "simulator host address",
						Destination: &SimulatorHostAddr,
						Required:    true,
					},
					&cli.StringFlag{
						Name:        "imei",
						Usage:       "modem imei",
						Value:       randomIMEI,
						DefaultText: randomIMEI,
						Destination: &ModemIMEI,
						Required:    false,
					},
					&cli.DurationFlag{
						Name:        "interval",
						Usage:       "time between two messages",
						Value:       3 * time.Second,
						Destination: &SendInterval,
					},
				},
				Action: func(ctx *cli.Context) error {
					modem := simulator.NewModem(SimulatorHostAddr, ModemIMEI, logger)
					if e := modem.Connect(); e != nil {
						return e
					}
					sendCtx, cancel := context.WithCancel(ctx.Context)
					go modem.SendRandomMessages(sendCtx, SendInterval)

					sigs := make(chan os.Signal, 1)
					signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
					<-sigs
					cancel()
					modem.Stop()
					return nil
				},
			},
		},
	}

	if e := app.Run(os.Args); e != nil {
		logger.Error("failed to run app", zap.Error(e))
	}
}

func runServer(cfg *envconfig.SBDServiceEnvConfig) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	sbdLog := newSBDLogger(cfg)
	defer sbdLog.Sync()

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps := server.Dependencies{
		PacketLog:     packetlog.New(cfg.LogLength, true),
		Metrics:       server.NewMetrics(registry),
		SBDLog:        sbdLog,
		MinSatellites: cfg.MinSatellites,
	}

	if cfg.NatsConn != "" {
		natsCon, err := nats.Connect(cfg.NatsConn)
		if err != nil {
			return err
		}
		defer natsCon.Close()
		deps.NatsConn = natsCon
	}
	if cfg.ClickHouseDB != "" {
		flightDB, err := flightdb.ConnectFlightDB(ctx, cfg.ClickHouseDB)
		if err != nil {
			return err
		}
		deps.FlightDB = flightDB
	}
	var lastPoints cache.LastPointCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		lastPoints = cache.NewRedisCache(redisClient, cfg.LastPointTTL)
		deps.LastPoints = lastPoints
	}
	if cfg.GaiaURL != "" {
		assigner, err := assign.NewClient(cfg.GaiaURL, cfg.GaiaAPIKey, cfg.AssignTimeout)
		if err != nil {
			return err
		}
		deps.Assigner = assigner
	}

	s := server.NewServer(net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)), logger, deps)
	go s.Start()

	httpAPI := api.NewServer(s.PacketLog(), lastPoints, registry, logger)
	go func() {
		if e := httpAPI.Run(net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.HTTPPort))); e != nil {
			logger.Error("http api stopped", zap.Error(e))
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if e := httpAPI.Shutdown(shutdownCtx); e != nil {
		logger.Error("http api shutdown failed", zap.Error(e))
	}
	s.Stop()
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(logLevel)
	return config.Build()
}

// newSBDLogger writes one JSON line per received message to a size rotated file.
func newSBDLogger(cfg *envconfig.SBDServiceEnvConfig) *zap.Logger {
	writeSyncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.SBDLogFile,
		MaxSize:    cfg.SBDLogMaxSize, // megabytes
		MaxBackups: cfg.SBDLogKeep,
	})
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writeSyncer, zap.InfoLevel)
	return zap.New(core)
}

func generateRandomIMEI() string {
	randomizer := rand.New(rand.NewSource(time.Now().UnixNano()))
	imei := "30"
	for i := 0; i < 13; i++ {
		imei += strconv.Itoa(randomizer.Intn(10))
	}
	return imei
}
