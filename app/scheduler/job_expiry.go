// Package scheduler runs periodic maintenance jobs
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultJobExpirySpec = "@every 1h"

// JobCloser closes postings whose application deadline has passed
type JobCloser interface {
	CloseExpired(ctx context.Context) (int64, error)
}

// JobExpiryScheduler periodically closes expired job postings
type JobExpiryScheduler struct {
	closer  JobCloser
	cron    *cron.Cron
	spec    string
	timeout time.Duration
}

func NewJobExpiryScheduler(closer JobCloser, spec string) (*JobExpiryScheduler, error) {
	if closer == nil {
		return nil, errors.New("job closer is required")
	}
	if spec == "" {
		spec = DefaultJobExpirySpec
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, err
	}
	return &JobExpiryScheduler{
		closer:  closer,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		spec:    spec,
		timeout: time.Minute,
	}, nil
}

// Start runs one pass immediately and then on the cron schedule. The
// returned function stops the scheduler and waits for a running pass.
func (s *JobExpiryScheduler) Start(parent context.Context) (func(), error) {
	ctx, cancel := context.WithCancel(parent)

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		cancel()
		return nil, err
	}

	go s.RunOnce(ctx)
	s.cron.Start()
	log.WithField("spec", s.spec).Info("Job expiry scheduler started")

	return func() {
		cancel()
		<-s.cron.Stop().Done()
	}, nil
}

func (s *JobExpiryScheduler) RunOnce(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	closed, err := s.closer.CloseExpired(ctx)
	if err != nil {
		log.WithField("error_type", "job_expiry").WithError(err).Error("Failed to close expired job postings")
		return
	}
	if closed > 0 {
		log.WithField("closed", closed).Info("Closed expired job postings")
	}
}
