package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

type actorKey struct{}

// Actor кто выполняет операцию. Используется для аудита записей на курсы.
type Actor struct {
	UserID int64
	Role   model.UserRole
}

// WithActor кладёт инициатора операции в контекст
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext достаёт инициатора операции
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

func actorID(ctx context.Context) *int64 {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}

func actorLabel(ctx context.Context) string {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return "system"
	}
	return fmt.Sprintf("%s:%d", actor.Role, actor.UserID)
}
