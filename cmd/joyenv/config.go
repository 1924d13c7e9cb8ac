package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-ini/ini"
)

// Config carries the daemon-ish knobs that do not belong on the command
// line: scan locations, poll rate and the calibration profile file.
type Config struct {
	Input struct {
		EventDir     string
		JoystickDirs []string
		PollRate     time.Duration
		Profiles     string
	}
}

func defaultConfig() Config {
	var c Config
	c.Input.EventDir = "/dev/input"
	c.Input.JoystickDirs = []string{"/dev/input", "/dev"}
	c.Input.PollRate = time.Second / 125
	return c
}

// LoadConfig reads the ini file at path. A missing file is not an
// error, it simply means defaults.
func LoadConfig(path string) (Config, error) {
	c := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}

	section, err := cfg.GetSection("input")
	if err != nil {
		return c, nil
	}

	if key, err := section.GetKey("event_dir"); err == nil {
		c.Input.EventDir = key.Value()
	}
	if key, err := section.GetKey("joystick_dirs"); err == nil {
		if dirs := key.Strings(","); len(dirs) > 0 {
			c.Input.JoystickDirs = dirs
		}
	}
	if key, err := section.GetKey("poll_rate"); err == nil {
		rate, err := key.Int()
		if err != nil || rate <= 0 {
			return c, fmt.Errorf("poll_rate must be a positive integer, got %q", key.Value())
		}
		c.Input.PollRate = time.Second / time.Duration(rate)
	}
	if key, err := section.GetKey("profiles"); err == nil {
		c.Input.Profiles = key.Value()
	}
	return c, nil
}
