package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/archive"
	"github.com/goodwatch/goodwatch-crawler/internal/config"
	"github.com/goodwatch/goodwatch-crawler/internal/publisher"
)

func TestBuildArchiveDefaultsToNoop(t *testing.T) {
	t.Parallel()

	store, client, err := buildArchive(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, client)
	require.IsType(t, archive.Noop{}, store)
}

func TestBuildPublisherDisabledWithoutProject(t *testing.T) {
	t.Parallel()

	events, client, err := buildPublisher(context.Background(), config.Config{}, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, client)
	require.IsType(t, publisher.Noop{}, events)
}
