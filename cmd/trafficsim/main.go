package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hussnain311/Traffic-Load-Balancer/config"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/network"
	"github.com/Hussnain311/Traffic-Load-Balancer/service"
	"github.com/Hussnain311/Traffic-Load-Balancer/simulation"
	"github.com/Hussnain311/Traffic-Load-Balancer/terminal"
	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
)

//go:embed example.toml
var exampleConfig string

var (
	configPath  = flag.String("config", "", "TOML config path (default: built-in example network)")
	headless    = flag.Bool("headless", false, "Run without the terminal viewer")
	fast        = flag.Bool("fast", false, "Headless only: advance -duration of sim time as fast as possible and print the final snapshot")
	listenAddr  = flag.String("listen", "", "Websocket listen address, e.g. 127.0.0.1:7777 (empty disables)")
	duration    = flag.Duration("duration", 0, "Stop after this much time (0 runs until interrupted)")
	seed        = flag.Int64("seed", 0, "Override sim.seed (0 keeps the config value)")
	logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logJSON     = flag.Bool("log-json", false, "Log as JSON")
	printConfig = flag.Bool("print-config", false, "Print the effective config and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trafficsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *printConfig {
		return config.Write(os.Stdout, cfg)
	}

	logger := log.New()
	logFile, err := setupLogging(logger, logOptions{Level: *logLevel, JSON: *logJSON, ToFile: !*headless})
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if *fast {
		return runFast(cfg, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	opts := []simulation.Option{simulation.WithLogger(logger)}
	manager := service.NewManager(logger)

	var hub *network.Hub
	if *listenAddr != "" {
		netCfg := network.DefaultConfig()
		netCfg.Address = *listenAddr
		hub = network.NewHub(netCfg, logger.WithField("component", "network"))
		opts = append(opts, simulation.WithHandler(hub))
		if err := manager.Register(network.NewService(netCfg, hub)); err != nil {
			return err
		}
	}

	controls := &schedulerControls{}
	var viewer *terminal.Viewer
	if !*headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		viewer = terminal.NewViewer(screen, simulation.Layout{}, controls, quit)
		opts = append(opts, simulation.WithHandler(viewer))
		if err := manager.Register(viewer); err != nil {
			return err
		}
		core.SetCrashHandler(func(any) { viewer.Fini() })
	}

	sim, err := simulation.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer sim.Close()

	sched := sim.NewScheduler()
	controls.sim, controls.sched = sim, sched
	if hub != nil {
		hub.SetControls(sim)
	}
	if viewer != nil {
		viewer.SetLayout(sim.Layout())
	}

	if err := manager.InitAll(); err != nil {
		return err
	}
	if err := manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	logger.WithFields(log.Fields{
		"run":      sim.ID(),
		"headless": *headless,
		"listen":   *listenAddr,
		"tick":     sim.TickInterval(),
	}).Info("simulation running")

	sched.Start(ctx)
	<-sched.Done()

	snap := sim.Snapshot()
	logger.WithFields(log.Fields{
		"ticks":    snap.Tick,
		"sim_time": snap.Time,
		"vehicles": len(snap.Vehicles),
		"coins":    snap.Coins,
	}).Info("simulation stopped")

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// runFast advances the configured duration of sim time without real-time pacing
func runFast(cfg *config.Config, logger *log.Logger) error {
	if *duration <= 0 {
		return fmt.Errorf("-fast needs a positive -duration")
	}
	sim, err := simulation.New(cfg, simulation.WithLogger(logger))
	if err != nil {
		return err
	}
	defer sim.Close()

	if err := sim.Advance(*duration, sim.TickInterval()); err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sim.Snapshot())
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.Parse(exampleConfig)
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		return nil, err
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	return cfg, cfg.Validate()
}

// schedulerControls routes viewer keys to the simulation and its clock
type schedulerControls struct {
	sim   *simulation.Simulation
	sched *engine.ClockScheduler
}

func (c *schedulerControls) PressStop(k int) error {
	if c.sim == nil {
		return simulation.ErrClosed
	}
	return c.sim.PressStop(k)
}

func (c *schedulerControls) Pause() {
	if c.sched != nil {
		c.sched.Pause()
	}
}

func (c *schedulerControls) Resume() {
	if c.sched != nil {
		c.sched.Resume()
	}
}

func (c *schedulerControls) IsPaused() bool {
	return c.sched != nil && c.sched.IsPaused()
}
