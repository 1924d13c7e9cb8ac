package main

// Cross-compilation helper, builds release binaries for the platforms
// the tool is typically deployed on. Run with: go run build.go

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
)

type target struct {
	goos   string
	goarch string
	goarm  string
}

func (t target) String() string {
	if t.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", t.goos, t.goarch, t.goarm)
	}
	return fmt.Sprintf("%s-%s", t.goos, t.goarch)
}

var availableTargets = []target{
	{goos: "linux", goarch: "arm", goarm: "6"},
	{goos: "linux", goarch: "arm", goarm: "7"},
	{goos: "linux", goarch: "arm64"},
	{goos: "linux", goarch: "386"},
	{goos: "linux", goarch: "amd64"},
}

var (
	selection string
	project   string
	basename  string
	race      bool
)

func init() {
	var names []string
	for _, t := range availableTargets {
		names = append(names, t.String())
	}
	flag.StringVar(&selection, "platforms", "all",
		fmt.Sprintf("comma-separated target platform list\navailable: %s", strings.Join(names, ",")))
	flag.StringVar(&project, "project", "./cmd/joyenv/", "project directory to build")
	flag.StringVar(&basename, "base", "joyenv", "base filename for output binaries")
	flag.BoolVar(&race, "race", false, "include race detector")
	flag.Parse()
}

func build(t target) error {
	out := fmt.Sprintf("./builds/%s-%s", basename, t.String())

	env := append(os.Environ(),
		"CGO_ENABLED=0",
		"GOOS="+t.goos,
		"GOARCH="+t.goarch,
	)
	if t.goarm != "" {
		env = append(env, "GOARM="+t.goarm)
	}

	params := []string{"build", "-o", out}
	if race {
		params = append(params, "-race")
	}
	params = append(params, project)

	cmd := exec.Command("go", params...)
	cmd.Env = env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w\n%s", t.String(), err, stderr.String())
	}
	return nil
}

func selectTargets() ([]target, error) {
	if selection == "all" {
		return availableTargets, nil
	}
	var selected []target
	for _, raw := range strings.Split(selection, ",") {
		found := false
		for _, t := range availableTargets {
			if t.String() == raw {
				selected = append(selected, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("target not found: %s", raw)
		}
	}
	return selected, nil
}

func main() {
	log.SetFlags(log.Ltime)

	targets, err := selectTargets()
	if err != nil {
		log.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(targets))
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			log.Printf("building %s", t.String())
			if err := build(t); err != nil {
				errs <- err
				return
			}
			log.Printf("done     %s", t.String())
		}(t)
	}
	wg.Wait()
	close(errs)

	ok := true
	for err := range errs {
		log.Printf("%v", err)
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
}
