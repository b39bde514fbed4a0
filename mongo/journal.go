// Package mongo provides a MongoDB-backed journal for exclusive workers.
package mongo

import (
	"go.mongodb.org/mongo-driver/mongo"

	mpersistence "github.com/petrijr/exclusive/mongo/internal/persistence"
)

// MongoJournal records worker events as documents in a collection.
type MongoJournal = mpersistence.MongoJournal

// NewMongoJournal returns a Journal stored in dbName.collName (defaults
// "exclusive" and "task_events"). Call EnsureIndexes once at startup.
func NewMongoJournal(client *mongo.Client, dbName, collName string) *MongoJournal {
	return mpersistence.NewMongoJournal(client, dbName, collName)
}
