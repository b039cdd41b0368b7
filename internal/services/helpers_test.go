package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/models"
)

var (
	sara  = models.Identity{UserID: "sara", Email: "sara.p@example.com"}
	arjun = models.Identity{UserID: "arjun", Email: "arjun.k@example.com"}
	chen  = models.Identity{UserID: "chen", Email: "chen.w@example.com"}
)

func seededUsers() *fakeUsers {
	return newFakeUsers(
		models.UserProfile{ID: "sara", Email: sara.Email, UserName: "sara_paws", Discoverable: true},
		models.UserProfile{ID: "arjun", Email: arjun.Email, UserName: "arjun_and_luna", Discoverable: true},
		models.UserProfile{ID: "chen", Email: chen.Email, UserName: "chen_walks_dogs"},
	)
}

func newTestWriter() *async.Writer {
	return async.NewWriter(zap.NewNop(), nil, time.Second)
}

// drain waits for every submitted non-blocking write
func drain(t *testing.T, w *async.Writer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Close(ctx))
}
