package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/benchside/Rally-Sense/internal/sim"
)

func main() {
	var rallies int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var system string
	var libero bool
	var verbose bool
	var perRally bool

	flag.IntVar(&rallies, "rallies", 25, "rallies to simulate per seed")
	flag.IntVar(&maxTicks, "max-ticks", 7200, "tick budget per rally before it is abandoned")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for the first session")
	flag.Int64Var(&seedStep, "seed-step", 0, "seed increment for extra sessions (0 = single session)")
	flag.StringVar(&system, "system", "5-1", "rotation system for formation presets")
	flag.BoolVar(&libero, "libero", false, "run with the libero substitution active")
	flag.BoolVar(&verbose, "verbose", false, "per-tick motion detail in the sim log")
	flag.BoolVar(&perRally, "per-rally", true, "print the rally-end line for every rally")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if rallies <= 0 {
		log.Fatal("-rallies must be > 0")
	}
	if maxTicks <= 0 {
		log.Fatal("-max-ticks must be > 0")
	}

	sessions := 1
	if seedStep != 0 {
		sessions = 3
	}
	exitCode := 0
	for s := 0; s < sessions; s++ {
		seed := seedBase + int64(s)*seedStep
		if !runSession(log, seed, rallies, maxTicks, system, libero, verbose, perRally) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// runSession plays out one seeded session and prints its report. It reports
// false when any rally had to be abandoned or the session hit a fatal
// phase-machine error.
func runSession(log *logrus.Logger, seed int64, rallies, maxTicks int, system string, libero, verbose, perRally bool) bool {
	opts := []sim.RigOption{
		sim.WithSeed(seed),
		sim.WithSystem(system),
		sim.WithVerbose(verbose),
	}
	if libero {
		opts = append(opts, sim.WithLibero())
	}
	rig := sim.NewTestRig(opts...)

	var fatal error
	rig.Engine.OnError(func(err error) { fatal = err })

	fmt.Printf("=== Session seed=%d system=%s rallies=%d ===\n", seed, system, rallies)

	ok := true
	for i := 0; i < rallies; i++ {
		if !rig.RunToPhase(sim.PhasePreServe, maxTicks) {
			log.WithField("rally", i+1).Warn("engine never returned to pre-serve")
			ok = false
			break
		}
		if !rig.RunRally(maxTicks) {
			log.WithFields(logrus.Fields{
				"rally": i + 1,
				"phase": rig.Engine.Phase().String(),
			}).Warn("rally abandoned at tick budget")
			ok = false
			continue
		}
		if fatal != nil {
			log.WithError(fatal).Error("fatal phase-machine error, session stopped")
			ok = false
			break
		}
		if perRally {
			fmt.Printf("  %s\n", rig.Engine.LastRallyDescription())
		}
	}

	fmt.Println()
	fmt.Print(rig.Engine.BuildReport().String())
	fmt.Println()
	return ok
}
