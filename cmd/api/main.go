package main

import (
	"context"
	"log"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/lifetribe/goals-backend/config"
	"github.com/lifetribe/goals-backend/internal/auth"
	"github.com/lifetribe/goals-backend/internal/bootstrap"
	"github.com/lifetribe/goals-backend/internal/goals/repository"
	"github.com/lifetribe/goals-backend/internal/goals/service"
	"github.com/lifetribe/goals-backend/internal/retention"
	"github.com/lifetribe/goals-backend/internal/rewards"
	"github.com/lifetribe/goals-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:       postgres.DSN(&cfg.Database),
		ConnectTO: 5 * time.Second,
		PingTO:    2 * time.Second,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, running with header auth (dev only)")
	}

	goalRepo := repository.NewGoalRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	actionRepo := repository.NewActionRepository(db)

	var rewardSink service.RewardSink
	if rdb != nil {
		rewardSink = rewards.NewPublisher(rdb)
	}

	svc := service.NewGoalService(goalRepo, metricRepo, actionRepo, rewardSink, service.PlanPolicy{
		FreeMaxVisions: cfg.Plans.FreeMaxVisions,
		FreeMaxKPIs:    cfg.Plans.FreeMaxKPIs,
	})

	sweeper := retention.NewSweeper(goalRepo, cfg.Retention.PurgeAfterDays)
	sweeper.Start()
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "goals-backend",
		Version:     cfg.App.Version,
		DB:          pool,
		Redis:       rdb,
		AuthClient:  authClient,
		Goals:       svc,
	})

	addr := ":" + cfg.Server.Port
	log.Printf("goals-backend %s listening on %s", cfg.App.Version, addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
