package repomanager

import (
	"context"
	"fmt"

	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoManager serves accounts from a MongoDB database.
type MongoManager struct {
	client *mongo.Client
	repo   *accounts.MongoRepository
}

// ConnectMongo dials uri, verifies the primary is reachable and binds the
// accounts repository to database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoManager{
		client: client,
		repo:   accounts.NewMongoRepository(client.Database(database)),
	}, nil
}

func (m *MongoManager) Accounts() accounts.Repository {
	return m.repo
}

// RunMigrations creates the unique indexes the account invariants rely on.
func (m *MongoManager) RunMigrations(ctx context.Context) error {
	return m.repo.EnsureIndexes(ctx)
}

// WithinTx runs fn directly: single-node deployments have no transactions,
// and every account write is a single-document operation guarded by the
// unique indexes.
func (m *MongoManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return fn(ctx, m.repo)
}

func (m *MongoManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
