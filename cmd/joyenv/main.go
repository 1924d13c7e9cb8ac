package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joyenv/joyenv/internal/pkg/input"
	"github.com/joyenv/joyenv/internal/pkg/logger"
)

var log = logger.GetLogger()

var (
	configPath = flag.String("config", "./config/joyenv.config", "configuration file location")
	watch      = flag.Bool("watch", false, "keep running and rescan when devices appear or disappear")
	poll       = flag.Bool("poll", false, "keep running and print component value changes")
	rumble     = flag.Float64("rumble", 0, "fire every rumbler at the given intensity (0-1) for a second, then exit")
	logLevel   = flag.Int("loglevel", 1,
		"logging level (0-2)\n"+
			"0: warnings only\n"+
			"1: general info (discovery results, rescans)\n"+
			"2: debug (device node changes, raw capability dumps)",
	)
	noColor = flag.Bool("nocolor", false, "disable color output")
)

func setLogLevel() {
	switch *logLevel {
	case 0:
		logger.SetLevel(zapcore.WarnLevel)
	case 1:
		logger.SetLevel(zapcore.InfoLevel)
	default:
		logger.SetLevel(zapcore.DebugLevel)
	}
}

func typeColor(au aurora.Aurora, t input.Type) aurora.Value {
	switch t {
	case input.Gamepad:
		return au.Green(t.String())
	case input.Stick:
		return au.Cyan(t.String())
	case input.Combined:
		return au.Magenta(t.String())
	case input.Mouse, input.Keyboard:
		return au.Yellow(t.String())
	default:
		return au.Gray(12, t.String())
	}
}

func printControllers(au aurora.Aurora, controllers []*input.Controller) {
	if len(controllers) == 0 {
		fmt.Println("no controllers found")
		return
	}
	for i, c := range controllers {
		fmt.Printf("%d: [%s] %s (%s)\n", i, typeColor(au, c.Type()), au.Bold(c.Name()), c.ID())
		for _, comp := range c.Components() {
			attrs := ""
			if comp.Analog() {
				attrs += " analog"
			}
			if comp.Relative() {
				attrs += " relative"
			}
			if dz := comp.DeadZone(); dz > 0 {
				attrs += fmt.Sprintf(" deadzone=%.3f", dz)
			}
			fmt.Printf("   %s%s\n", comp.ID(), attrs)
		}
		for _, r := range c.Rumblers() {
			fmt.Printf("   rumbler: %s\n", au.Red(r.Name()))
		}
	}
}

func testRumble(controllers []*input.Controller, intensity float32) {
	for _, c := range controllers {
		for _, r := range c.Rumblers() {
			log.Info("rumbling", zap.String("name", r.Name()), zap.Float32("intensity", intensity))
			if err := r.Rumble(intensity); err != nil {
				log.Warn("rumble failed", zap.String("name", r.Name()), zap.Error(err))
			}
		}
	}
	time.Sleep(time.Second)
	for _, c := range controllers {
		for _, r := range c.Rumblers() {
			if err := r.Rumble(0); err != nil {
				log.Warn("stopping rumble failed", zap.String("name", r.Name()), zap.Error(err))
			}
		}
	}
}

// pollLoop prints component transitions until ctx is done. Values are
// keyed per controller index so identical components on different
// devices do not shadow each other.
func pollLoop(ctx context.Context, au aurora.Aurora, env *input.Environment, rate time.Duration) {
	last := make(map[string]float32)
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for i, c := range env.Controllers() {
			if err := c.Poll(); err != nil {
				log.Warn("poll failed", zap.String("name", c.Name()), zap.Error(err))
				continue
			}
			for _, comp := range c.Components() {
				key := fmt.Sprintf("%d/%s", i, comp.ID())
				v := comp.Value()
				if prev, ok := last[key]; !ok || prev != v {
					last[key] = v
					if !ok && v == 0 {
						continue
					}
					fmt.Printf("%s %s = %s\n", au.Bold(c.Name()), comp.ID(), au.Cyan(fmt.Sprintf("%+.3f", v)))
				}
			}
		}
	}
}

func watchLoop(ctx context.Context, au aurora.Aurora, env *input.Environment, dir string) {
	changes, err := input.MonitorDevices(ctx, dir)
	if err != nil {
		log.Warn("device monitoring unavailable", zap.String("dir", dir), zap.Error(err))
		<-ctx.Done()
		return
	}
	for range changes {
		log.Info("device set changed, rescanning")
		env.Rescan()
		printControllers(au, env.Controllers())
	}
}

func main() {
	flag.Parse()
	setLogLevel()

	au := aurora.NewAurora(!*noColor)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	opts := []input.Option{
		input.WithEventDir(cfg.Input.EventDir),
		input.WithJoystickDirs(cfg.Input.JoystickDirs...),
	}
	if cfg.Input.Profiles != "" {
		profiles, err := input.LoadProfiles(cfg.Input.Profiles)
		if err != nil {
			log.Error("failed to load calibration profiles", zap.String("path", cfg.Input.Profiles), zap.Error(err))
			os.Exit(1)
		}
		opts = append(opts, input.WithProfiles(profiles))
	}

	env := input.New(opts...)
	defer func() {
		if err := env.Close(); err != nil {
			log.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	if !env.Supported() {
		fmt.Println("native input support unavailable on this host")
		return
	}

	printControllers(au, env.Controllers())

	if *rumble > 0 {
		testRumble(env.Controllers(), float32(*rumble))
		return
	}
	if !*watch && !*poll {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("signal received", zap.Stringer("signal", sig))
		cancel()
	}()

	if *watch {
		go watchLoop(ctx, au, env, cfg.Input.EventDir)
	}
	if *poll {
		pollLoop(ctx, au, env, cfg.Input.PollRate)
	} else {
		<-ctx.Done()
	}
}
