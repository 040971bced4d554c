package repository

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"booking-service/domain"
)

// number of times a unit of work is replayed after losing a version race
const txConflictRetries = 3

// MongoTxRunner wraps units of work in a Mongo session transaction so a
// multi-row reservation either fully commits or fully rolls back. A call
// made from inside a running transaction joins it instead of nesting.
type MongoTxRunner struct {
	client *mongo.Client
	logger *log.Logger
}

func NewMongoTxRunner(client *mongo.Client, logger *log.Logger) *MongoTxRunner {
	return &MongoTxRunner{
		client: client,
		logger: logger,
	}
}

func (tr *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt < txConflictRetries; attempt++ {
		session, err := tr.client.StartSession()
		if err != nil {
			tr.logger.Println(err)
			return err
		}

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			return nil, fn(sessCtx)
		})
		session.EndSession(ctx)

		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict()) {
			return err
		}
		lastErr = err
		tr.logger.Println("retrying after concurrent stock modification:", err)
	}
	return lastErr
}
