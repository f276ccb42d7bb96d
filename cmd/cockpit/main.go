package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/open-teleop/cockpit/domain/teleop"
	"github.com/open-teleop/cockpit/pkg/api"
	"github.com/open-teleop/cockpit/pkg/config"
	"github.com/open-teleop/cockpit/pkg/gamepad"
	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/transport"
)

func main() {
	configPath := flag.String("config", "config/cockpit_config.yaml", "Path to the cockpit configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Infof("Open-Teleop Cockpit starting")

	// Transport to the robot gateway.
	zmqTransport, err := transport.NewZMQTransport(&cfg.ZeroMQ, logger)
	if err != nil {
		logger.Fatalf("Failed to create transport: %v", err)
	}

	// Status surface and telemetry fan-out.
	reporter := teleop.NewStatusReporter(logger)
	hub := api.NewStatusHub(logger)
	reporter.Subscribe(hub.BroadcastStatus)

	relay := teleop.NewTelemetryRelay(logger)
	relay.AddSink(hub.BroadcastTelemetry)
	for _, channel := range cfg.Telemetry.Channels {
		if err := zmqTransport.Subscribe(channel, relay.HandleFrame); err != nil {
			logger.Warnf("Failed to subscribe to telemetry channel %s: %v", channel, err)
		}
	}

	// Command pipeline.
	multipliers := teleop.NewMultipliers(
		cfg.Teleop.Multipliers.Linear,
		cfg.Teleop.Multipliers.Angular,
		cfg.Teleop.Multipliers.LinearMax,
		cfg.Teleop.Multipliers.AngularMax,
	)
	publisher := teleop.NewCommandPublisher(zmqTransport, cfg.Teleop.CommandChannel, teleop.SystemClock, logger)
	touch := teleop.NewTouchSource(
		publisher, reporter, multipliers,
		time.Duration(cfg.Teleop.TouchThrottleMs)*time.Millisecond,
		teleop.SystemClock, logger,
	)

	frameTicker := gamepad.NewFrameTicker(cfg.Teleop.FrameRateHz)
	reader := gamepad.NewReader(logger)
	session := teleop.NewGamepadSession(
		publisher, reporter, multipliers,
		reader, frameTicker, cfg.Teleop.GamepadDeadzone, logger,
	)

	// Host-side hotplug drives the gamepad session; the control WebSocket
	// can drive it too for browser-observed devices.
	watcher := gamepad.NewWatcher(
		time.Second,
		session.Start,
		func(int) { session.Stop() },
		logger,
	)
	watcher.Start()

	// Lifecycle events feed the status machine.
	go func() {
		for event := range zmqTransport.Events() {
			reporter.HandleTransportEvent(event)
		}
	}()

	if err := zmqTransport.Start(); err != nil {
		logger.Fatalf("Failed to start transport: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Open-Teleop Cockpit",
		ErrorHandler: errorHandler,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "open-teleop cockpit",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api.RegisterTeleopRoutes(app, multipliers, reporter, logger)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/control", websocket.New(func(conn *websocket.Conn) {
		api.ControlWebSocketHandler(conn, touch, session, logger)
	}))
	app.Get("/ws/status", websocket.New(func(conn *websocket.Conn) {
		api.StatusWebSocketHandler(conn, hub, reporter, logger)
	}))

	go func() {
		addr := ":" + strconv.Itoa(cfg.Server.HTTPPort)
		logger.Infof("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	watcher.Stop()
	session.Stop()
	frameTicker.Stop()
	zmqTransport.Close()
	reader.Close()

	logger.Infof("Cockpit exited properly")
}

// errorHandler returns JSON errors with the appropriate status code.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
