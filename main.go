package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"studyload/config"
	"studyload/groups"
	"studyload/handlers"
	"studyload/store"
	"studyload/tasks"
	"studyload/utils"
	"studyload/workload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("environment: ", cfg.AppEnv)

	ctx := context.Background()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer backend.Close()

	if cfg.DBDriver == config.DriverSQLite {
		if err := backend.Migrate(ctx); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	redisPool, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisPool.Close()

	app := &handlers.App{
		Users:      backend,
		Sessions:   utils.RedisSessions{Client: redisPool, TTL: cfg.SessionTTL},
		Tasks:      tasks.NewService(backend),
		Groups:     groups.NewService(backend, nil),
		Engine:     workload.NewEngine(backend, time.Now, cfg.Location()),
		SessionTTL: cfg.SessionTTL,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("Starting server on", cfg.Addr)
	log.Fatal(srv.ListenAndServe())
}
