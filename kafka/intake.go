package kafka

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"renderbot/render"
	"renderbot/types"
)

// IntakeConfig holds the render-request intake configuration.
type IntakeConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Processor *render.Processor
}

// NewIntakeConsumer creates a consumer that submits render requests from a
// Kafka topic to the processor, as an alternative to the HTTP endpoint.
func NewIntakeConsumer(config IntakeConfig) (*Consumer, error) {
	handler := &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool {
			if msg.NarrationURL == "" {
				log.Printf("Skipping render request without narrationUrl")
				return false
			}
			if len(msg.VideoClips) == 0 {
				log.Printf("Skipping render request without clips")
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			jobID, err := config.Processor.Submit(ctx, *msg)
			if err != nil {
				return err
			}
			log.Printf("[job %s] accepted render request from Kafka: %q (%d clips)", jobID, msg.Title, len(msg.VideoClips))
			return nil
		},
		// Malformed or incomplete requests are marked and skipped; only
		// submission failures are left for redelivery.
		AlwaysMark: true,
	}

	return NewConsumer(ConsumerConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
		GroupID: config.GroupID,
		Handler: handler,
	})
}

// StartIntakeWithGracefulShutdown runs the intake consumer until SIGINT or
// SIGTERM, then drains in-flight renders before returning.
func StartIntakeWithGracefulShutdown(config IntakeConfig) error {
	consumer, err := NewIntakeConsumer(config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give the consumer loop a moment to settle before closing.
	time.Sleep(2 * time.Second)

	if err := consumer.Close(); err != nil {
		return err
	}

	log.Println("Waiting for in-flight renders to finish...")
	config.Processor.Wait()
	return nil
}

// GetKafkaBrokers parses the Kafka broker list from the environment.
func GetKafkaBrokers() []string {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	return strings.Split(brokers, ",")
}

// GetKafkaTopic returns the render-request topic name.
func GetKafkaTopic() string {
	topic := os.Getenv("KAFKA_TOPIC_RENDER_REQUESTS")
	if topic == "" {
		topic = "render-requests"
	}
	return topic
}

// GetKafkaGroupID returns the consumer group id.
func GetKafkaGroupID() string {
	groupID := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "renderbot-consumer-group"
	}
	return groupID
}
