package main

import (
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/benchside/Rally-Sense/internal/sim"
	"github.com/benchside/Rally-Sense/internal/view"
)

func main() {
	// A local .env can pin RALLY_SEED or RALLY_SYSTEM for repeatable demos.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	seed := time.Now().UnixNano()
	if s := os.Getenv("RALLY_SEED"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			log.WithError(err).Fatalf("bad RALLY_SEED %q", s)
		}
		seed = v
	}
	system := os.Getenv("RALLY_SYSTEM")
	if system == "" {
		system = "5-1"
	}

	engine := sim.NewEngine(sim.Config{Seed: seed, System: system})
	v := view.New(engine)

	log.WithFields(logrus.Fields{
		"seed":   seed,
		"system": system,
	}).Info("starting rally sense")

	scale := 1.0
	if s := os.Getenv("RALLY_SCALE"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			log.Fatalf("bad RALLY_SCALE %q", s)
		}
		scale = f
	}

	w, h := v.WindowSize()
	ebiten.SetWindowTitle("Rally Sense")
	ebiten.SetWindowSize(int(float64(w)*scale), int(float64(h)*scale))
	if err := ebiten.RunGame(v); err != nil {
		log.WithError(err).Fatal("game loop exited")
	}
}
