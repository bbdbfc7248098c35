package sim

import (
	"context"
	"time"

	"campaign-sim/internal/logging"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tick, "time_scale", s.timeScale)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step()
		case <-ctx.Done():
			log.Info("stopping simulator", "campaign_time", s.Now())
			return
		}
	}
}

// Now returns the campaign clock.
func (s *Simulator) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camp.Now()
}
