package background

import (
	"context"
	"time"

	"taxdesk/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// JobScheduler runs the maintenance jobs: the invitation-expiry sweep
// that flips stale Pending invitations to Expired.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	invitationSvc services.InvitationService
}

func NewJobScheduler(invitationSvc services.InvitationService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		invitationSvc: invitationSvc,
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.sweepExpiredInvitations),
		gocron.WithName("invitation-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (js *JobScheduler) sweepExpiredInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.invitationSvc.ExpireStale(ctx); err != nil {
		log.Error().Err(err).Msg("invitation expiry sweep failed")
	}
}

func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}
