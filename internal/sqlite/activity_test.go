package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/timetrack/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	projectID := int64(1)
	sessionID := int64(10)
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	entries := []*activity.ActivityEntry{
		{OperationID: "op-1", ProjectID: &projectID, ActivityType: activity.TypeProjectCreated, Summary: "created", CreatedAt: base},
		{OperationID: "op-2", ProjectID: &projectID, SessionID: &sessionID, ActivityType: activity.TypeTimerStarted, Summary: "started", CreatedAt: base.Add(time.Minute)},
		{OperationID: "op-3", ActivityType: activity.TypeProjectDeleted, Summary: "deleted", Details: `{"name":"Old"}`, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Log(ctx, entry))
		require.NotZero(t, entry.ID)
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "op-3", all[0].OperationID)
	require.Nil(t, all[0].ProjectID)
	require.Equal(t, `{"name":"Old"}`, all[0].Details)

	byProject, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	started := activity.TypeTimerStarted
	bySession, err := repo.List(ctx, activity.ListActivityOptions{SessionID: &sessionID, ActivityType: &started})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	require.Equal(t, sessionID, *bySession[0].SessionID)

	since := base.Add(time.Minute)
	recent, err := repo.List(ctx, activity.ListActivityOptions{Since: &since, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "op-3", recent[0].OperationID)
}
