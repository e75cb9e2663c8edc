package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-watermark/internal/metrics"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var errMissingJobID = errors.New("job has no id")

// StartWorker registers a consumer and handles its deliveries on a new
// goroutine until ctx ends or the broker closes the delivery channel.
func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	consumer := fmt.Sprintf("worker-%d", workerID)
	msgs, err := q.channel.Consume(q.queueName, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer %s: %w", consumer, err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID), zap.String("queue", q.queueName))
	go q.consume(ctx, workerID, msgs)
	return nil
}

func (q *QueueService) consume(ctx context.Context, workerID int, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
			return
		case msg, ok := <-msgs:
			if !ok {
				q.logger.Warn("Delivery channel closed", zap.Int("worker_id", workerID))
				return
			}
			q.processMessage(ctx, msg, workerID)
		}
	}
}

// processMessage runs one delivery to completion. Malformed bodies are
// dropped. A job interrupted by ctx is put back on the queue as pending;
// every other outcome is acknowledged and recorded.
func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	log := q.logger.With(zap.Int("worker_id", workerID))

	job, err := decodeJob(msg.Body)
	if err != nil {
		log.Error("Dropping malformed job message", zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			log.Error("Failed to nack message", zap.Error(err))
		}
		return
	}
	log = log.With(zap.String("job_id", job.ID))

	job.Status = models.StatusProcessing
	q.saveJob(ctx, job)

	result, err := q.processJob(ctx, job)
	if ctx.Err() != nil {
		job.Status = models.StatusPending
		q.saveJob(context.WithoutCancel(ctx), job)
		if err := msg.Nack(false, true); err != nil {
			log.Error("Failed to requeue interrupted job", zap.Error(err))
			return
		}
		metrics.QueueJobsTotal.WithLabelValues("requeued").Inc()
		log.Info("Job interrupted, requeued")
		return
	}

	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		log.Error("Job processing failed", zap.Error(err))
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		log.Info("Job completed", zap.String("url", result.URL))
	}
	metrics.QueueJobsTotal.WithLabelValues(job.Status).Inc()

	if err := msg.Ack(false); err != nil {
		log.Error("Failed to ack message", zap.Error(err))
	}
	q.saveJob(ctx, job)
}

func decodeJob(body []byte) (*models.WatermarkJob, error) {
	var job models.WatermarkJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("invalid job payload: %w", err)
	}
	if job.ID == "" {
		return nil, errMissingJobID
	}
	return &job, nil
}

func (q *QueueService) saveJob(ctx context.Context, job *models.WatermarkJob) {
	if err := q.store.SetJob(ctx, job); err != nil {
		q.logger.Error("Failed to store job status",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status),
			zap.Error(err))
	}
}
