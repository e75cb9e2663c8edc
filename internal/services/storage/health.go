package storage

import (
	"context"

	"go.uber.org/zap"
)

// HealthCheck checks Redis and the object store
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		status["redis"] = "unhealthy: " + err.Error()
	} else {
		status["redis"] = "healthy"
	}

	name := s.objects.Name()
	if err := s.objects.Health(ctx); err != nil {
		s.logger.Warn("Object store unhealthy", zap.String("backend", name), zap.Error(err))
		status[name] = "unhealthy: " + err.Error()
	} else {
		status[name] = "healthy"
	}

	return status
}
