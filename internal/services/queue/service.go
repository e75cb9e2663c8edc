package queue

import (
	"context"
	"fmt"
	"io"

	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const DefaultQueueName = "watermark_jobs"

// Pipeline watermarks one encoded image.
type Pipeline interface {
	Process(r io.Reader, spec models.WatermarkSpec, settings models.ExportSettings) (*processor.Output, error)
}

// ResultStore persists job records, cached results and uploaded outputs.
type ResultStore interface {
	GenerateCacheKey(source string, spec models.WatermarkSpec, settings models.ExportSettings) string
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, string, error)
	SetJob(ctx context.Context, job *models.WatermarkJob) error
}

// DownloadFunc fetches a source image by URL.
type DownloadFunc func(ctx context.Context, imageURL string, maxSize int64) ([]byte, string, error)

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	QueueInspect(name string) (amqp.Queue, error)
	Close() error
}

type QueueService struct {
	conn        *amqp.Connection
	channel     channel
	logger      *zap.Logger
	queueName   string
	pipeline    Pipeline
	store       ResultStore
	download    DownloadFunc
	maxFileSize int64
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	pipeline Pipeline,
	store ResultStore,
	maxFileSize int64,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if queueName == "" {
		queueName = DefaultQueueName
	}

	// Declare queue
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One unacknowledged image per consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	q := newQueueService(ch, queueName, pipeline, store, maxFileSize, logger)
	q.conn = conn
	return q, nil
}

func newQueueService(ch channel, queueName string, pipeline Pipeline, store ResultStore, maxFileSize int64, logger *zap.Logger) *QueueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueService{
		channel:     ch,
		logger:      logger,
		queueName:   queueName,
		pipeline:    pipeline,
		store:       store,
		download:    utils.DownloadImage,
		maxFileSize: maxFileSize,
	}
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
