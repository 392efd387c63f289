// anymap-bench runs a randomized workload against a single map and reports
// throughput. The mix of operations comes from a yaml scenario file or the
// built-in default, the number of distinct stored types is configurable up to
// the number of compiled-in probe types.
//
// Build it with -tags anymap_flat to measure the flat table backing instead
// of the built-in map.
package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/oliverbestmann/anymap"
	"github.com/pkg/profile"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Scenario is the operation mix of one run. Gets, Inserts, Entries, Removes
// and Clones are relative weights, not counts.
type Scenario struct {
	Ops     int `yaml:"ops"`
	Types   int `yaml:"types"`
	Gets    int `yaml:"gets"`
	Inserts int `yaml:"inserts"`
	Entries int `yaml:"entries"`
	Removes int `yaml:"removes"`
	Clones  int `yaml:"clones"`
}

var defaultScenario = Scenario{
	Ops:     1_000_000,
	Types:   8,
	Gets:    8,
	Inserts: 4,
	Entries: 2,
	Removes: 1,
	Clones:  1,
}

func main() {
	flags := pflag.NewFlagSet("anymap-bench", pflag.ContinueOnError)

	scenarioPath := flags.String("scenario", "", "path to a yaml scenario file")
	ops := flags.Int("ops", 0, "override the operation count of the scenario")
	types := flags.Int("types", 0, "override the distinct type count of the scenario")
	seed := flags.Uint64("seed", 1, "seed of the workload rng")
	profileMode := flags.String("profile", "off", "write a profile: off, cpu or mem")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		os.Exit(2)
	}

	scenario := defaultScenario

	if *scenarioPath != "" {
		loaded, err := loadScenario(*scenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		scenario = loaded
	}

	if *ops > 0 {
		scenario.Ops = *ops
	}

	if *types > 0 {
		scenario.Types = *types
	}

	if err := scenario.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	case "off":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	run(scenario, *seed)
}

func loadScenario(path string) (Scenario, error) {
	scenario := defaultScenario

	raw, err := os.ReadFile(path)
	if err != nil {
		return scenario, err
	}

	if err := yaml.Unmarshal(raw, &scenario); err != nil {
		return scenario, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return scenario, nil
}

func (s Scenario) validate() error {
	if s.Ops < 1 {
		return fmt.Errorf("scenario needs at least one op, got %d", s.Ops)
	}

	if s.Types < 1 || s.Types > len(probes) {
		return fmt.Errorf("scenario needs between 1 and %d types, got %d", len(probes), s.Types)
	}

	if s.Gets+s.Inserts+s.Entries+s.Removes+s.Clones < 1 {
		return fmt.Errorf("scenario weights must not all be zero")
	}

	return nil
}

func run(scenario Scenario, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// preload half of the probe types in one bulk move
	preload := make([]anymap.CloneValue, 0, scenario.Types/2)
	for i := 0; i < scenario.Types/2; i++ {
		preload = append(preload, probes[i].handle(i))
	}

	m := anymap.New[anymap.CloneValue]()
	m.Put(preload...)

	var hits, misses, clones int

	total := scenario.Gets + scenario.Inserts + scenario.Entries
	total += scenario.Removes + scenario.Clones

	start := time.Now()

	for op := 0; op < scenario.Ops; op++ {
		probe := &probes[rng.IntN(scenario.Types)]
		roll := rng.IntN(total)

		switch {
		case roll < scenario.Gets:
			if probe.get(m) {
				hits++
			} else {
				misses++
			}

		case roll < scenario.Gets+scenario.Inserts:
			probe.insert(m, op)

		case roll < scenario.Gets+scenario.Inserts+scenario.Entries:
			probe.entry(m, op)

		case roll < total-scenario.Clones:
			probe.remove(m)

		default:
			dup := anymap.Clone(m)
			clones += dup.Len()
		}
	}

	elapsed := time.Since(start)
	perOp := float64(elapsed.Nanoseconds()) / float64(scenario.Ops)

	fmt.Printf("%d ops over %d types in %s (%.1f ns/op)\n",
		scenario.Ops, scenario.Types, elapsed.Round(time.Millisecond), perOp)
	fmt.Printf("gets: %d hits, %d misses\n", hits, misses)
	fmt.Printf("cloned entries: %d\n", clones)
	fmt.Printf("final state: len=%d cap=%d\n", m.Len(), m.Cap())
}
