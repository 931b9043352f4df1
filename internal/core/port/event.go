package port

import (
	"context"
	"time"
)

type CatalogEvent struct {
	Event     string    `json:"event"`
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event CatalogEvent) error
	Close() error
}
