package utils

import (
	"context"

	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

// SystemActor пишется в аудит, когда запрос не несёт информации о клиенте
const SystemActor = "System"

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

func GetActorFromCtx(ctx context.Context) string {
	actor, ok := ctx.Value(contextkeys.ActorKey).(string)
	if !ok || actor == "" {
		return SystemActor
	}
	return actor
}

func GetUsernameFromCtx(ctx context.Context) (string, error) {
	username, ok := ctx.Value(contextkeys.UsernameKey).(string)
	if !ok || username == "" {
		return "", apperrors.ErrUnauthorized
	}
	return username, nil
}

func GetSessionIDFromCtx(ctx context.Context) (string, error) {
	sid, ok := ctx.Value(contextkeys.SessionIDKey).(string)
	if !ok || sid == "" {
		return "", apperrors.ErrUnauthorized
	}
	return sid, nil
}
