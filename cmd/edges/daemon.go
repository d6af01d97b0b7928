package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/1broseidon/edges/internal/action"
	"github.com/1broseidon/edges/internal/config"
	"github.com/1broseidon/edges/internal/daemon"
	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/geometry"
	"github.com/1broseidon/edges/internal/ipc"
	"github.com/1broseidon/edges/internal/logging"
	"github.com/1broseidon/edges/internal/notify"
	"github.com/1broseidon/edges/internal/platform"
	"github.com/1broseidon/edges/internal/runtimepath"
	"github.com/1broseidon/edges/internal/x11"
)

// overrides holds daemon flags that take precedence over the config file.
// They are re-applied after every reload.
type overrides struct {
	commands map[string]string
	delayMs  *int
	block    bool
	debug    bool
	display  string
}

func (o overrides) apply(res *config.LoadResult) error {
	cfg := res.Config
	if res.Sources == nil {
		res.Sources = map[string]config.Source{}
	}
	for name, cmd := range o.commands {
		if err := cfg.SetCommand(name, cmd); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		z, _ := edge.Parse(name)
		res.Sources["commands."+z.String()] = config.Source{Kind: config.SourceFlag, Name: "--" + name}
	}
	if o.delayMs != nil {
		cfg.DelayMs = *o.delayMs
		res.Sources["delay_ms"] = config.Source{Kind: config.SourceFlag, Name: "--delay"}
	}
	if o.block {
		cfg.Block = true
		res.Sources["block"] = config.Source{Kind: config.SourceFlag, Name: "--block"}
	}
	if o.debug {
		cfg.LogLevel = "debug"
		res.Sources["log_level"] = config.Source{Kind: config.SourceFlag, Name: "--debug"}
	}
	if o.display != "" {
		cfg.Display = o.display
		res.Sources["display"] = config.Source{Kind: config.SourceFlag, Name: "--display"}
	}
	return nil
}

func parseDaemonFlags(args []string) (path string, o overrides, code int) {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: edges daemon [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Watch the pointer and run the command bound to each screen edge.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Config file path (default: ~/.config/edges/config.yaml)")
	cmds := make(map[string]*string, edge.Count)
	for _, z := range edge.All() {
		cmds[z.String()] = fs.String(z.String(), "", "Command to run at the "+z.String()+" edge")
	}
	delay := fs.Int("delay", 0, "Milliseconds the pointer must stay on an edge (max 1000)")
	block := fs.Bool("block", false, "Wait for each command to exit before detecting again")
	debug := fs.Bool("debug", false, "Enable debug logging")
	display := fs.String("display", "", "X display to connect to (default: $DISPLAY)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return "", o, 0
		}
		return "", o, 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return "", o, 2
	}

	o.commands = map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay":
			v := *delay
			o.delayMs = &v
		case "block":
			o.block = *block
		case "debug":
			o.debug = *debug
		case "display":
			o.display = *display
		default:
			if p, ok := cmds[f.Name]; ok {
				o.commands[f.Name] = *p
			}
		}
	})
	return *configPath, o, -1
}

func runDaemon(args []string) int {
	path, o, code := parseDaemonFlags(args)
	if code >= 0 {
		return code
	}
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := o.apply(res); err != nil {
		log.Fatalf("Invalid flag: %v", err)
	}
	cfg := res.Config

	logger, level, err := logging.Setup(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config", "warning", w)
	}
	if res.File != "" {
		logger.Info("configuration loaded", "file", res.File, "commands", len(cfg.Commands))
	} else {
		logger.Info("no config file, using defaults", "path", path)
	}

	lock, err := runtimepath.Lock()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer lock.Close()

	backend, err := platform.NewLinuxBackend(platform.LinuxOptions{
		Display:      cfg.Display,
		PollInterval: cfg.PollInterval(),
		Logger:       logger,
	})
	if err != nil {
		if errors.Is(err, x11.ErrWayland) {
			log.Fatalf("edges needs an X11 session: %v", err)
		}
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Close()

	table, err := action.NewTable(cfg.Commands)
	if err != nil {
		log.Fatalf("Invalid commands: %v", err)
	}
	dispatcher := action.NewDispatcher(table, action.NewExecLauncher(logger), cfg.Block, logger)

	ctrl := &controller{
		path:       path,
		overrides:  o,
		backend:    backend,
		dispatcher: dispatcher,
		level:      level,
		logger:     logger,
		loaded:     cfg,
	}
	ctrl.notifyOnFailure.Store(cfg.NotifyOnFailure)
	defer ctrl.closeNotifier()

	d, err := daemon.New(daemon.Config{
		Backend:       backend,
		Dispatcher:    dispatcher,
		Settings:      settingsFrom(cfg),
		Logger:        logger,
		OnLaunchError: ctrl.launchFailed,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	ctrl.daemon = d
	logger.Info("edges daemon started", "monitors", len(d.Monitors()), "delay", cfg.Delay(), "block", cfg.Block)

	ipcServer, err := ipc.NewServer(ctrl, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.Watch(ctx, path, func() {
		logger.Info("config file changed, reloading")
		if err := ctrl.Reload(); err != nil {
			logger.Error("config reload failed", "error", err)
		}
	}, func(err error) {
		logger.Warn("config watcher", "error", err)
	}); err != nil {
		logger.Warn("live reload disabled", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					if err := ctrl.Reload(); err != nil {
						logger.Error("config reload failed", "error", err)
					}
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				d.Stop()
			}
		}
	}()

	if err := d.Run(ctx); err != nil {
		logger.Error("event loop failed", "error", err)
		return 1
	}
	logger.Info("edges daemon stopped", "dispatches", d.Status().Dispatches)
	return 0
}

func settingsFrom(cfg *config.Config) daemon.Settings {
	return daemon.Settings{
		Delay:         cfg.Delay(),
		DeadZoneRatio: cfg.DeadZoneRatio,
	}
}

// monitorLister is the part of the backend the controller reads names from.
type monitorLister interface {
	MonitorNames() ([]string, error)
}

// controller serves IPC requests against the running daemon.
type controller struct {
	path       string
	overrides  overrides
	daemon     *daemon.Daemon
	dispatcher *action.Dispatcher
	backend    monitorLister
	level      *slog.LevelVar
	logger     *slog.Logger

	reloadMu sync.Mutex
	loaded   *config.Config

	notifyOnFailure atomic.Bool
	notifyMu        sync.Mutex
	notifier        *notify.Notifier
}

var _ ipc.Controller = (*controller)(nil)

func (c *controller) Status() ipc.StatusData {
	return statusData(c.daemon.Status(), time.Now())
}

func (c *controller) Monitors() ([]ipc.MonitorInfo, error) {
	rects := c.daemon.Monitors()
	names, err := c.backend.MonitorNames()
	if err != nil {
		c.logger.Debug("monitor names unavailable", "error", err)
		names = nil
	}
	return monitorInfos(rects, names), nil
}

func (c *controller) Trigger(ctx context.Context, zone edge.Zone) error {
	return c.daemon.Trigger(ctx, zone)
}

// Reload re-reads the config file and applies it to the running loop. On
// error the previous configuration stays in effect.
func (c *controller) Reload() error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	res, err := config.LoadFromPath(c.path)
	if err != nil {
		return err
	}
	if err := c.overrides.apply(res); err != nil {
		return err
	}
	cfg := res.Config

	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	table, err := action.NewTable(cfg.Commands)
	if err != nil {
		return err
	}

	for _, w := range cfg.Warnings() {
		c.logger.Warn("config", "warning", w)
	}
	if cfg.Display != c.loaded.Display || cfg.PollInterval() != c.loaded.PollInterval() {
		c.logger.Warn("display and poll_interval_ms changes take effect after restart")
	}

	c.level.Set(lvl)
	c.dispatcher.Update(table, cfg.Block)
	c.daemon.Apply(settingsFrom(cfg))
	c.notifyOnFailure.Store(cfg.NotifyOnFailure)
	c.loaded = cfg

	c.logger.Info("config reloaded", "commands", len(cfg.Commands), "delay", cfg.Delay(), "block", cfg.Block)
	return nil
}

// launchFailed reports a command that could not be started.
func (c *controller) launchFailed(zone edge.Zone, err error) {
	if !c.notifyOnFailure.Load() {
		return
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.notifier == nil {
		n, nerr := notify.New("edges")
		if nerr != nil {
			c.logger.Warn("desktop notifications unavailable", "error", nerr)
			return
		}
		c.notifier = n
	}
	if nerr := c.notifier.Notify("edges: "+zone.String()+" command failed", err.Error()); nerr != nil {
		c.logger.Warn("notification failed", "error", nerr)
	}
}

func (c *controller) closeNotifier() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.notifier != nil {
		c.notifier.Close()
		c.notifier = nil
	}
}

func statusData(s daemon.Status, now time.Time) ipc.StatusData {
	data := ipc.StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(now.Sub(s.StartedAt).Seconds()),
		State:         s.State,
		LastX:         s.Last.X,
		LastY:         s.Last.Y,
		LastEdge:      s.LastEdge,
		Dispatches:    s.Dispatches,
		MonitorCount:  len(s.Monitors),
		DelayMs:       s.Delay.Milliseconds(),
		Block:         s.Block,
		Commands:      s.Commands,
	}
	if !s.LastHit.IsZero() {
		data.LastHit = s.LastHit.Format(time.RFC3339)
	}
	if data.Commands == nil {
		data.Commands = map[string]string{}
	}
	return data
}

// monitorInfos pairs rectangles with output names. Names are used only when
// they line up one-to-one with the rectangles.
func monitorInfos(rects []geometry.Rect, names []string) []ipc.MonitorInfo {
	out := make([]ipc.MonitorInfo, 0, len(rects))
	for i, r := range rects {
		name := fmt.Sprintf("monitor-%d", i)
		if len(names) == len(rects) && names[i] != "" {
			name = names[i]
		}
		out = append(out, ipc.MonitorInfo{
			ID:     i,
			Name:   name,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		})
	}
	return out
}
