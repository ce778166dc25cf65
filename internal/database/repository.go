package database

import (
	"context"
	"errors"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/store"
)

// Key namespaces
const (
	nsPlan       = "plan"
	nsSession    = "session"
	nsReview     = "review"
	nsPoints     = "points"
	nsStats      = "stats"
	nsProfile    = "profile"
	nsFriend     = "friend"
	nsGoal       = "goal"
	nsGoalMember = "goalmember"
)

// load reads key into v, mapping a missing key to a NotFound error for resource
func load(ctx context.Context, s store.Store, key, resource, id string, v interface{}) error {
	err := store.GetJSON(ctx, s, key, v)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource, id)
	}
	if err != nil {
		return apperr.Store("failed to get "+resource, err)
	}
	return nil
}

func save(ctx context.Context, s store.Store, key, resource string, v interface{}) error {
	if err := store.SetJSON(ctx, s, key, v); err != nil {
		return apperr.Store("failed to save "+resource, err)
	}
	return nil
}

func list[T any](ctx context.Context, s store.Store, prefix, resource string) ([]T, error) {
	out, err := store.ListJSON[T](ctx, s, prefix)
	if err != nil {
		return nil, apperr.Store("failed to list "+resource, err)
	}
	return out, nil
}
