package booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SweepStats итог одного прохода
type SweepStats struct {
	Expired int
	Orphans int
	Failed  int
}

// Sweeper серверная страховка фазы подбора: отменяет просроченные сессии
// и бронирования, оставшиеся в REQUESTED после рестарта или потери клиента
type Sweeper struct {
	registry    *Registry
	source      ReservationSource
	compensator Compensator
	recorder    Recorder
	log         Logger
	interval    time.Duration
	batch       uint64
	now         func() time.Time
	stopChan    chan struct{}
}

// NewSweeper создаёт фоновую задачу очистки
func NewSweeper(
	registry *Registry,
	source ReservationSource,
	compensator Compensator,
	recorder Recorder,
	log Logger,
	interval time.Duration,
	batch uint64,
) *Sweeper {
	return &Sweeper{
		registry:    registry,
		source:      source,
		compensator: compensator,
		recorder:    recorder,
		log:         log,
		interval:    interval,
		batch:       batch,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Start запускает периодическую очистку
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Starting booking sweeper, interval=%s", s.interval)
	go s.run(ctx)
}

// Stop останавливает очистку
func (s *Sweeper) Stop() {
	s.log.Info("Stopping booking sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			s.log.Info("Booking sweeper stopped")
			return
		case <-ctx.Done():
			s.log.Info("Booking sweeper cancelled")
			return
		}
	}
}

// Sweep один проход очистки
func (s *Sweeper) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats

	for _, session := range s.registry.Expired() {
		stats.Expired++
		if err := session.abandon(ctx, TriggerTTL); err != nil {
			stats.Failed++
		}
	}

	orphans, err := s.source.ListExpiredMatching(ctx, s.now(), s.batch)
	if err != nil {
		s.log.Error("Sweeper: failed to list expired matching reservations: %v", err)
		return stats
	}

	for _, res := range orphans {
		// Живая сессия отменится сама по TTL
		if s.registry.Has(res.ID) {
			continue
		}

		stats.Orphans++
		if err := s.releaseOrphan(ctx, res); err != nil {
			stats.Failed++
			s.log.Error("Sweeper: failed to release reservation_id=%d: %v", res.ID, err)
		}
	}

	if stats.Expired > 0 || stats.Orphans > 0 {
		s.log.Info("Sweeper: expired=%d, orphans=%d, failed=%d", stats.Expired, stats.Orphans, stats.Failed)
	}

	return stats
}

func (s *Sweeper) releaseOrphan(ctx context.Context, res *domain.Reservation) error {
	candidates, err := s.source.GetCandidates(ctx, res.ID)
	if err != nil {
		return err
	}

	err = s.compensator.CancelBeforeConfirm(ctx, res.ID, domain.CandidateIDs(candidates))
	s.recorder.Compensation(string(TriggerOrphan), err)
	return err
}
