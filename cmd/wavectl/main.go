package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wave-client/common/database"
	logpkg "wave-client/common/logger"
	mqttpkg "wave-client/common/mqtt"
	redisclient "wave-client/common/redis"
	"wave-client/internal/api"
	"wave-client/internal/config"
	"wave-client/internal/focus"
	"wave-client/internal/identity"
	"wave-client/internal/session"
	"wave-client/internal/store"

	"go.uber.org/zap"
)

const usage = `usage: wavectl [flags] <command> [args]

commands:
  id                                   show device and forum author ids
  mood add <1-5> [note]                log a mood
  mood list | clear
  journal add [-capsule YYYY-MM-DD] [-tags a,b] <text>
  journal list | clear
  pulse                                community pulse
  reflect [-mood N] [text]             reflection on the latest entry
  chat [-flow ID -step ID] <text>      chat, or one therapeutic flow step
  moderate <text>
  forum list [-tab recent|trending]
  forum post [-category slug] <title> <body>
  forum thread|vote|summary <id>
  forum comment <id> <text>
  forum report [-reason r] <id>
  claim                                move device data to the signed-in account
  whoami | signin <token> | signout
  music [status|off]                   play ambient audio until interrupted
  focus on|off|watch
  export [-o history.xlsx]

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "wavectl: %v\n", err)
		}
		os.Exit(1)
	}
}

// app holds what every command needs. Backends are opened lazily.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer

	kv      store.KV
	ids     *identity.Provider
	client  *api.Client
	session *session.TokenProvider

	closers []func() error
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wavectl", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", os.Getenv("WAVE_CONFIG"), "YAML config file")
	storage := fs.String("storage", "", "storage driver: file, memory, redis, postgres")
	origin := fs.String("origin", "", "API origin")
	logLevel := fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *storage != "" {
		cfg.Storage.Driver = strings.ToLower(*storage)
	}
	if *origin != "" {
		cfg.API.Origin = *origin
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "wavectl")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	a := &app{cfg: cfg, logger: logger, out: out}
	defer a.close()

	if err := a.init(ctx); err != nil {
		return err
	}
	return a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}

func (a *app) init(ctx context.Context) error {
	kv, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	a.kv = store.Prefixed(kv, a.cfg.Storage.Namespace)
	a.ids = identity.NewProvider(a.kv, a.logger)
	a.session = session.NewTokenProvider(a.cfg.Session.TokenFile, a.logger)

	a.client, err = api.NewClient(api.Options{
		Origin:  a.cfg.API.Origin,
		Base:    a.cfg.API.Base,
		Timeout: a.cfg.API.Timeout,
	}, a.logger)
	if err != nil {
		return err
	}
	return nil
}

func (a *app) openStorage(ctx context.Context) (store.KV, error) {
	switch a.cfg.Storage.Driver {
	case config.StorageMemory:
		return store.NewMemoryKV(), nil

	case config.StorageRedis:
		client, err := redisclient.Connect(ctx, &a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		a.closers = append(a.closers, func() error { return redisclient.Close(client) })
		a.logger.Debug("Using redis storage", zap.String("addr", a.cfg.Redis.Addr))
		return store.NewRedisKV(client), nil

	case config.StoragePostgres:
		db, err := database.NewPostgresDB(ctx, &a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		kv := store.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		a.logger.Debug("Using postgres storage", zap.String("host", a.cfg.Database.Host))
		return kv, nil

	default:
		a.logger.Debug("Using file storage", zap.String("path", a.cfg.Storage.Path))
		return store.NewFileKV(a.cfg.Storage.Path), nil
	}
}

// focusBus returns a bus, bridged to MQTT when enabled.
func (a *app) focusBus(ctx context.Context) (*focus.Bus, error) {
	bus := focus.NewBus()
	if !a.cfg.MQTT.Enabled {
		return bus, nil
	}

	mqttCfg := a.cfg.MQTT.MQTTConfig
	mqttCfg.ClientID = mqttCfg.ClientID + "-" + a.ids.DeviceID(ctx)
	client, err := mqttpkg.NewClient(&mqttCfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { client.Disconnect(); return nil })

	bridge := focus.NewMQTTBridge(bus, client, a.cfg.MQTT.Topic, mqttCfg.ClientID, a.logger)
	if err := bridge.Start(); err != nil {
		return nil, err
	}
	// runs before Disconnect
	a.closers = append(a.closers, bridge.Close)
	return bus, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Error during shutdown", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
