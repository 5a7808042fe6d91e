package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"nikahlink/config"

	invitationRepo "nikahlink/database/repository/invitation"
)

const TypeExpirySweep = "expiry:sweep"

// expirySweepInterval is how often invitations past their expiry date are
// flipped to expired.
const expirySweepInterval = 1 * time.Hour

// InitExpiryWorker runs the invitation expiry sweep in the background: a
// periodic scheduler enqueues sweep tasks, and the worker executes them
// against the invitation store.
func InitExpiryWorker(repo invitationRepo.InvitationRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpirySweep, handleExpirySweep(repo))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(
		"@every "+expirySweepInterval.String(),
		asynq.NewTask(TypeExpirySweep, nil),
	); err != nil {
		log.Fatalf("[ExpiryWorker] failed to register sweep schedule: %v", err)
	}

	go func() {
		log.Println("[ExpiryWorker] starting scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Printf("[ExpiryWorker] scheduler stopped: %v", err)
		}
	}()

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleExpirySweep(repo invitationRepo.InvitationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := repo.ExpireOverdue(ctx)
		if err != nil {
			log.Printf("[ExpirySweep] sweep failed: %v", err)
			return err
		}
		if n > 0 {
			log.Printf("[ExpirySweep] marked %d invitation(s) expired", n)
		}
		return nil
	}
}
