package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"renderbot/api"
	"renderbot/common"
	"renderbot/config"
	"renderbot/jobs"
	"renderbot/kafka"
	"renderbot/render"
)

func main() {
	kafkaMode := flag.Bool("kafka", false, "Consume render requests from Kafka instead of serving HTTP")
	port := flag.String("port", "", "API server port (overrides PORT)")
	flag.Parse()

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx := context.Background()

	store, err := common.NewS3(ctx, common.S3Config{
		AccountID: cfg.Storage.AccountID,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		log.Fatalf("failed to init object store client: %v", err)
	}

	var registry jobs.Registry
	if cfg.RedisAddr != "" {
		redisRegistry, err := jobs.NewRedisRegistry(ctx, jobs.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      config.JobRecordTTL,
		})
		if err != nil {
			log.Fatalf("failed to init Redis job registry: %v", err)
		}
		defer redisRegistry.Close()
		registry = redisRegistry
		log.Printf("Job registry: Redis (%s)", cfg.RedisAddr)
	} else {
		registry = jobs.NewMemoryRegistry()
		log.Println("Job registry: in-memory")
	}

	proc := render.NewProcessor(
		render.NewHTTPFetcher(),
		render.FFmpegEncoder{},
		render.NewR2Publisher(store, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL),
		render.NewWebhookNotifier(),
		registry,
		cfg,
	)

	if *kafkaMode {
		log.Println("Running in Kafka consumer mode")
		intake := kafka.IntakeConfig{
			Brokers:   kafka.GetKafkaBrokers(),
			Topic:     kafka.GetKafkaTopic(),
			GroupID:   kafka.GetKafkaGroupID(),
			Processor: proc,
		}
		log.Printf("Kafka brokers: %v, topic: %s, group: %s", intake.Brokers, intake.Topic, intake.GroupID)
		if err := kafka.StartIntakeWithGracefulShutdown(intake); err != nil {
			log.Fatalf("Kafka consumer failed: %v", err)
		}
		return
	}

	addr := ":" + cfg.Port

	r := api.NewRouter(proc, registry)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  POST /render")
	log.Println("  GET  /render/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
