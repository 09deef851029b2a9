// Воркер очереди почтовых уведомлений: читает задачи из Redis (asynq)
// и отправляет письма через SMTP relay
package main

import (
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/appointa/booking-service/internal/config"
	"github.com/appointa/booking-service/internal/notifier"
	"github.com/appointa/booking-service/pkg/logger"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service mail worker...")

	sender := notifier.NewSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.From)
	worker := notifier.NewWorker(sender, cfg.Mail.BaseURL, log)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)

	mux := asynq.NewServeMux()
	worker.Register(mux)

	log.Info("Mail worker listening on redis=%s (smtp=%s:%d)", cfg.Redis.Addr, cfg.Mail.SMTPHost, cfg.Mail.SMTPPort)

	// Run блокируется до SIGINT/SIGTERM и сам завершает обработчики
	if err := srv.Run(mux); err != nil {
		log.Fatal("Mail worker failed: %v", err)
	}

	log.Info("Mail worker stopped gracefully")
}
