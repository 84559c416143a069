package service

import (
	"math/rand"
	"sync"
	"time"
)

// FareConfig contains fare estimation policy.
type FareConfig struct {
	MinDistanceKm int  // lower bound of the synthetic distance, inclusive
	MaxDistanceKm int  // upper bound of the synthetic distance, inclusive
	RatePerKm     int  // currency units per km
	HonorQuotes   bool // when true, a quoted fare carried by a booking is binding
}

// DefaultFareConfig returns the reference fare policy: 2-10 km at 15
// currency units per km, estimates non-binding.
func DefaultFareConfig() FareConfig {
	return FareConfig{
		MinDistanceKm: 2,
		MaxDistanceKm: 10,
		RatePerKm:     15,
		HonorQuotes:   false,
	}
}

// FareService estimates fares. Without real geodata the distance between
// any two locations is sampled uniformly from a bounded range, so two
// estimates for the same pair may differ. Whether a previewed estimate
// binds the booked fare is controlled by FareConfig.HonorQuotes.
type FareService struct {
	cfg FareConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFareService creates a new FareService.
func NewFareService(cfg FareConfig) *FareService {
	if cfg.MinDistanceKm <= 0 || cfg.MaxDistanceKm < cfg.MinDistanceKm || cfg.RatePerKm <= 0 {
		cfg = DefaultFareConfig()
	}
	return &FareService{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Estimate computes an advisory fare for a pickup/drop pair.
func (s *FareService) Estimate(pickup, drop string) (int64, error) {
	if pickup == "" || drop == "" {
		return 0, ErrInvalidLocation
	}
	return int64(s.sampleDistanceKm() * s.cfg.RatePerKm), nil
}

// HonorQuotes reports whether previewed estimates bind the booked fare.
func (s *FareService) HonorQuotes() bool {
	return s.cfg.HonorQuotes
}

// sampleDistanceKm draws a synthetic distance in [min, max].
// rand.Rand is not safe for concurrent use.
func (s *FareService) sampleDistanceKm() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MinDistanceKm + s.rng.Intn(s.cfg.MaxDistanceKm-s.cfg.MinDistanceKm+1)
}
