package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Submit records one pending job per image URL and publishes it. Jobs that
// were recorded before a publish failure are returned with the error.
func (q *QueueService) Submit(ctx context.Context, imageURLs []string, spec models.WatermarkSpec, settings models.ExportSettings) ([]*models.WatermarkJob, error) {
	jobs := make([]*models.WatermarkJob, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		job := &models.WatermarkJob{
			ID:        uuid.New().String(),
			ImageURL:  imageURL,
			Spec:      spec,
			Export:    settings,
			Status:    models.StatusPending,
			CreatedAt: time.Now(),
		}

		if err := q.store.SetJob(ctx, job); err != nil {
			return jobs, err
		}
		if err := q.PublishJob(ctx, job); err != nil {
			job.Status = models.StatusFailed
			job.Error = err.Error()
			q.saveJob(ctx, job)
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (q *QueueService) PublishJob(ctx context.Context, job *models.WatermarkJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    job.ID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue", zap.String("job_id", job.ID))
	return nil
}
