// Command heos-dashboard is a tiny demo binary wiring internal/config,
// heosweb and the root heos package together, against either a real
// HEOS device or the in-process mock backend. It exists for manual
// smoke-testing of heosweb, grounded on the teacher's main.go CLI-mode
// wiring (flag parsing, a banner, signal-driven graceful shutdown) but
// with the desktop/GUI branch replaced by an HTTP server start.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	heos "github.com/mvandenberg/heos-go"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/heosweb"
	"github.com/mvandenberg/heos-go/internal/config"
	"github.com/mvandenberg/heos-go/internal/logging"
	"github.com/mvandenberg/heos-go/internal/util"
	"github.com/mvandenberg/heos-go/mock"
)

var (
	configPath = flag.String("config", "heos-dashboard.json", "path to the JSON config file (created with defaults if absent)")
	deviceAddr = flag.String("addr", "", "HEOS device host:port; overrides the config file's device.addr")
	mockMode   = flag.Bool("mock", false, "force the in-process mock backend regardless of the config file")
	fixture    = flag.String("fixture", "", "optional JSON fixture file seeding (and hot-reloading into) the mock backend's player topology")
	listenAddr = flag.String("listen", "", "dashboard HTTP listen address; overrides the config file's dashboard.listen_addr")
	open       = flag.Bool("open", false, "open the dashboard in the system's default browser once it's listening")
)

func main() {
	flag.Parse()

	cfg, created, err := config.Ensure(*configPath)
	if err != nil {
		log.Fatalf("heos-dashboard: load config: %v", err)
	}
	cfg.ApplyEnv()
	if *deviceAddr != "" {
		cfg.Device.Addr = *deviceAddr
		cfg.Device.Mock = false
	}
	if *mockMode {
		cfg.Device.Mock = true
	}
	if *listenAddr != "" {
		cfg.Dashboard.ListenAddr = *listenAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("heos-dashboard: invalid config: %v", err)
	}
	if created {
		log.Printf("heos-dashboard: wrote default config to %s", *configPath)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	logger, err := logging.New(logging.Options{Development: cfg.Logging.Development, Level: level})
	if err != nil {
		log.Fatalf("heos-dashboard: build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("heos-dashboard: shutting down")
		cancel()
	}()

	conn, stopFixtureWatch, err := buildConnection(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("heos-dashboard: %v", err)
	}
	defer func() {
		if stopFixtureWatch != nil {
			stopFixtureWatch()
		}
		conn.Close()
	}()

	if err := conn.InitStateful(ctx); err != nil {
		log.Fatalf("heos-dashboard: init stateful model: %v", err)
	}

	srv := heosweb.New(conn, logger)
	srv.Start()
	defer srv.Stop()

	printBanner(cfg)

	go func() {
		if err := srv.Echo.Start(cfg.Dashboard.ListenAddr); err != nil {
			logger.Info("heosweb server stopped", zap.Error(err))
		}
	}()

	if *open {
		go func() {
			time.Sleep(300 * time.Millisecond)
			if err := util.OpenURL("http://" + cfg.Dashboard.ListenAddr); err != nil {
				logger.Warn("heos-dashboard: open browser failed", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Echo.Shutdown(shutdownCtx)
}

// buildConnection dials a real device or wires up the mock backend per
// cfg.Device.Mock, returning a Created->AdHoc heos.Connection and (for
// the mock path, when -fixture is set) a stop function for the
// fsnotify watcher.
func buildConnection(ctx context.Context, cfg config.Config, logger *zap.Logger) (*heos.Connection, func(), error) {
	if !cfg.Device.Mock {
		conn := heos.New(cfg.Device.Addr, logger)
		if err := conn.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Device.Addr, err)
		}
		return conn, nil, nil
	}

	var sys *mock.System
	if *fixture != "" {
		var err error
		sys, err = mock.LoadFixture(*fixture)
		if err != nil {
			return nil, nil, fmt.Errorf("load mock fixture: %w", err)
		}
	} else {
		sys = mock.NewSystem()
		sys.AddPlayer(demoPlayerInfo())
	}

	var stopWatch func()
	if *fixture != "" {
		stop, err := mock.WatchFixture(sys, *fixture, logger)
		if err != nil {
			logger.Warn("heos-dashboard: fixture watch disabled", zap.Error(err))
		} else {
			stopWatch = stop
		}
	}

	conn := heos.New("mock", logger)
	if err := conn.ConnectTransport(ctx, mock.NewConn(sys)); err != nil {
		return nil, stopWatch, fmt.Errorf("attach mock transport: %w", err)
	}
	return conn, stopWatch, nil
}

// demoPlayerInfo seeds a single named player when the mock backend is
// started with no -fixture, so the dashboard has something to show
// rather than an empty fleet.
func demoPlayerInfo() data.PlayerInfo {
	return data.PlayerInfo{
		Id: 1, Name: "Living Room", Model: "HEOS Drive",
		Version: "3.34.620", IP: "127.0.0.1", Network: data.NetworkWired,
	}
}

func printBanner(cfg config.Config) {
	fmt.Println("heos-dashboard")
	if cfg.Device.Mock {
		fmt.Println("device:    mock backend (no network device)")
	} else {
		fmt.Printf("device:    %s\n", cfg.Device.Addr)
	}
	fmt.Printf("dashboard: http://%s\n", cfg.Dashboard.ListenAddr)
	fmt.Println("Ctrl+C to stop")
	fmt.Println()
}
