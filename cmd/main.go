package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/api"
	"github.com/Capitan-Parrot/surveillance-console/internal/archive"
	"github.com/Capitan-Parrot/surveillance-console/internal/config"
	"github.com/Capitan-Parrot/surveillance-console/internal/control"
	"github.com/Capitan-Parrot/surveillance-console/internal/events"
	"github.com/Capitan-Parrot/surveillance-console/internal/gateway"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	"github.com/Capitan-Parrot/surveillance-console/internal/stream"
	consolesync "github.com/Capitan-Parrot/surveillance-console/internal/sync"
)

func main() {
	log.Println("Main: init...")

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.Backend.BaseURL)
	st := store.New()

	// Периодический опрос и проба доступности
	scheduler := consolesync.New(st, client, cfg.Poll.OverviewInterval.Std())
	go scheduler.Start(ctx)

	monitor := consolesync.NewMonitor(st, client, cfg.Poll.HealthInterval.Std())
	go monitor.Start(ctx)

	// Приём тревог из Kafka
	intake, err := events.NewAlarmIntake(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AlarmTopic, st)
	if err != nil {
		log.Fatalf("Failed to create alarm intake: %v", err)
	}
	defer intake.Close()
	go intake.Start(ctx)

	// Аудит действий оператора
	producer, err := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer producer.Close()

	// Архив снапшотов
	snapshots, err := archive.NewWriter(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.SnapshotBucket)
	if err != nil {
		log.Fatalf("Failed connect to MinIO: %v", err)
	}

	gw := gateway.New(st, client, scheduler, producer)

	creds := api.GatewayCredentials{
		APIKey:       cfg.Gateway.APIKey,
		APIKeyID:     cfg.Gateway.APIKeyID,
		RobotAddress: cfg.Gateway.RobotAddress,
	}
	streams := stream.NewManager(client, creds)
	defer streams.CloseAll()

	// Локальный управляющий HTTP-интерфейс
	handlers := control.NewHandlers(ctx, st, scheduler, gw, streams, snapshots)
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: handlers.Router(),
	}

	go func() {
		log.Printf("Starting control API server on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Control server error: %v", err)
		}
	}()

	// Ждём сигнал завершения
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Println("Завершение работы...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Control server shutdown: %v", err)
	}
	cancel() // Останавливаем горутины
}
