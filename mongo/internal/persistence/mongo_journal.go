package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	corep "github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
)

// MongoJournal is a Journal backed by a MongoDB collection. Each event is
// one document; ObjectIDs generated at insert time give the listing order.
type MongoJournal struct {
	coll *mongo.Collection
}

var _ corep.Journal = (*MongoJournal)(nil)

// NewMongoJournal creates a Mongo-backed journal.
// dbName defaults to "exclusive" if empty, collName defaults to "task_events".
func NewMongoJournal(client *mongo.Client, dbName, collName string) *MongoJournal {
	if dbName == "" {
		dbName = "exclusive"
	}
	if collName == "" {
		collName = "task_events"
	}

	return &MongoJournal{
		coll: client.Database(dbName).Collection(collName),
	}
}

type mongoEventDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Worker   string             `bson:"worker"`
	TaskID   string             `bson:"task_id,omitempty"`
	Seq      int64              `bson:"seq"`
	Type     string             `bson:"type"`
	AtNanos  int64              `bson:"at"`
	Duration int64              `bson:"duration"`
	Detail   string             `bson:"detail,omitempty"`
}

// EnsureIndexes creates the (worker, _id) index used by List.
func (j *MongoJournal) EnsureIndexes(ctx context.Context) error {
	_, err := j.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "worker", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo journal: create index: %w", err)
	}
	return nil
}

func (j *MongoJournal) Append(ctx context.Context, ev api.TaskEvent) error {
	ev, err := corep.Normalize(ev)
	if err != nil {
		return err
	}

	doc := mongoEventDoc{
		ID:       primitive.NewObjectID(),
		Worker:   ev.Worker,
		TaskID:   ev.TaskID,
		Seq:      int64(ev.Seq),
		Type:     string(ev.Type),
		AtNanos:  ev.At.UnixNano(),
		Duration: int64(ev.Duration),
		Detail:   ev.Detail,
	}
	if _, err := j.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo journal: append: %w", err)
	}
	return nil
}

func (j *MongoJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	// ObjectIDs generated by one process sort in creation order, including
	// within the same second.
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := j.coll.Find(ctx, bson.M{"worker": worker}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo journal: list: %w", err)
	}
	defer cur.Close(ctx)

	var out []api.TaskEvent
	for cur.Next(ctx) {
		var doc mongoEventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, api.TaskEvent{
			Worker:   doc.Worker,
			TaskID:   doc.TaskID,
			Seq:      uint64(doc.Seq),
			Type:     api.EventType(doc.Type),
			At:       time.Unix(0, doc.AtNanos),
			Duration: time.Duration(doc.Duration),
			Detail:   doc.Detail,
		})
	}
	return out, cur.Err()
}
