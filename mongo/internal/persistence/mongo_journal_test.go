package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	corep "github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/internal/persistence/journaltest"
	"github.com/petrijr/exclusive/internal/testutil"
)

func newTestClient(t *testing.T) *mongo.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testutil.GetMongoURI(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil), "mongo ping failed")
	return client
}

func TestMongoJournalSuite(t *testing.T) {
	client := newTestClient(t)

	suite.Run(t, &journaltest.Suite{
		NewJournal: func(t *testing.T) corep.Journal {
			// A fresh collection per test keeps tests independent.
			coll := "events_" + uuid.NewString()
			j := NewMongoJournal(client, "exclusive_test", coll)
			require.NoError(t, j.EnsureIndexes(context.Background()))
			t.Cleanup(func() {
				_ = client.Database("exclusive_test").Collection(coll).Drop(context.Background())
			})
			return j
		},
	})
}

func TestNewMongoJournal_Defaults(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	j := NewMongoJournal(client, "", "")
	require.Equal(t, "exclusive", j.coll.Database().Name())
	require.Equal(t, "task_events", j.coll.Name())
}
