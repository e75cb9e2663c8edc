package queue

import "fmt"

// GetQueueStats reports the depth and consumer count of the job queue.
// stalled is set when jobs are waiting and no worker is attached.
func (q *QueueService) GetQueueStats() (map[string]interface{}, error) {
	info, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue %s: %w", q.queueName, err)
	}

	return map[string]interface{}{
		"name":      info.Name,
		"messages":  info.Messages,
		"consumers": info.Consumers,
		"stalled":   info.Messages > 0 && info.Consumers == 0,
	}, nil
}

func (q *QueueService) HealthCheck() string {
	switch {
	case q.channel == nil:
		return "unhealthy: channel not available"
	case q.conn == nil, q.conn.IsClosed():
		return "unhealthy: connection closed"
	default:
		return "healthy"
	}
}
