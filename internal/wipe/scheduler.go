// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package wipe implements the daily full wipe of all tracker partitions.
//
// The scheduler is a perpetual, self-rescheduling loop: it arms a one-shot
// timer for the next midnight boundary in the configured location, drops
// every partition when it fires, and re-arms for the following midnight
// whether or not the wipe succeeded. A failed wipe is absorbed and not
// retried before the next boundary. Only context cancellation (supervisor
// shutdown) stops the loop.
//
// The wipe runs uncoordinated with in-flight requests; the daily-reset
// semantics are advisory, not transactional.
package wipe

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/digital7/trackerd/internal/logging"
	"github.com/digital7/trackerd/internal/metrics"
)

// Dropper is the single gateway operation the scheduler needs.
type Dropper interface {
	DropAllPartitions(ctx context.Context) (int, error)
}

// Scheduler drops all partitions at each midnight boundary. It implements
// suture.Service.
type Scheduler struct {
	dropper  Dropper
	location *time.Location
	logger   zerolog.Logger

	// now is injectable so tests pin the deadline computation.
	now func() time.Time
}

// NewScheduler creates a wipe scheduler. A nil location means process-local
// time.
func NewScheduler(dropper Dropper, location *time.Location) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		dropper:  dropper,
		location: location,
		logger:   logging.With().Str("component", "wipe").Logger(),
		now:      time.Now,
	}
}

// NextMidnight returns the first midnight strictly after now in loc.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
}

// Serve implements suture.Service. It blocks until ctx is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	for {
		now := s.now()
		deadline := NextMidnight(now, s.location)
		delay := deadline.Sub(now)

		s.logger.Info().
			Time("next_wipe", deadline).
			Dur("in", delay).
			Msg("Daily wipe armed")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one full wipe. Failures are logged and counted, never
// returned: there is no caller to surface them to, and the loop re-arms
// regardless.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	dropped, err := s.dropper.DropAllPartitions(ctx)
	if err != nil {
		metrics.WipeRunsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("Daily wipe failed")
		return
	}
	metrics.WipeRunsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Int("partitions_dropped", dropped).
		Dur("duration", time.Since(start)).
		Msg("Daily wipe complete")
}

// String implements fmt.Stringer for supervision logs.
func (s *Scheduler) String() string {
	return "daily-wipe"
}
