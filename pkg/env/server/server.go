package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/app-sre/overpass/pkg/env"
)

const DefaultEndpoint = "https://overpass-api.de"

type Env struct {
	Endpoint string
	Timeout  time.Duration
}

func NewServerEnv() *Env {
	return &Env{Endpoint: DefaultEndpoint}
}

// Populate overrides the defaults with OVERPASS_SERVER and OVERPASS_TIMEOUT.
// Both are optional; unset or empty values leave the current value alone.
func (s *Env) Populate() error {
	if endpoint := os.Getenv("OVERPASS_SERVER"); endpoint != "" {
		s.Endpoint = endpoint
	}

	if timeout := os.Getenv("OVERPASS_TIMEOUT"); timeout != "" {
		d, err := parseDuration(timeout)
		if err != nil {
			return &env.TypeError{Name: "OVERPASS_TIMEOUT"}
		}
		s.Timeout = d
	}

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		s = strconv.Itoa(n) + "s"
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse duration: %w", err)
	}
	if d < 0 {
		d = -d
	}

	return d, nil
}
