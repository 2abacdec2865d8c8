// Package mongostore implements the transaction store on MongoDB. Rows are
// upserted keyed by (artifact, row index) and a commit marker collection
// records completed artifacts, so retries never duplicate rows.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finsight-dev/finsight/internal/model"
)

const (
	transactionsCollection = "transactions"
	commitsCollection      = "commits"

	dateFormat = "2006-01-02"
)

// Cursor is the subset of *mongo.Cursor the store iterates with.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// Collection is the subset of *mongo.Collection the store depends on,
// kept narrow for testability.
type Collection interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel,
		opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	CountDocuments(ctx context.Context, filter interface{},
		opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) (Cursor, error)
	CreateUniqueIndex(ctx context.Context, keys ...string) error
}

// CollectionProvider hands out collections by name.
type CollectionProvider interface {
	Collection(name string) Collection
}

// mongoCollection adapts *mongo.Collection to Collection.
type mongoCollection struct {
	*mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter interface{},
	opts ...*options.FindOptions) (Cursor, error) {
	cur, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (c *mongoCollection) CreateUniqueIndex(ctx context.Context, keys ...string) error {
	keyDoc := bson.D{}
	for _, k := range keys {
		keyDoc = append(keyDoc, bson.E{Key: k, Value: 1})
	}
	_, err := c.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keyDoc,
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Provider adapts a *mongo.Database to CollectionProvider.
type Provider struct {
	db *mongo.Database
}

// NewProvider creates a Provider over db.
func NewProvider(db *mongo.Database) *Provider {
	return &Provider{db: db}
}

// Collection returns the named collection.
func (p *Provider) Collection(name string) Collection {
	return &mongoCollection{p.db.Collection(name)}
}

// Connect establishes a MongoDB connection and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	return client, nil
}

// transactionDoc is the stored row shape. Amounts are stored as
// fixed-point strings to avoid float drift.
type transactionDoc struct {
	Artifact    string `bson:"artifact"`
	Row         int    `bson:"row"`
	Date        string `bson:"transaction_date"`
	Description string `bson:"description"`
	Amount      string `bson:"amount"`
	Category    string `bson:"category"`
}

type commitDoc struct {
	Artifact    string    `bson:"artifact"`
	Rows        int       `bson:"rows"`
	CommittedAt time.Time `bson:"committed_at"`
}

// Store is a Mongo-backed TransactionStore.
type Store struct {
	provider CollectionProvider
}

// New creates a Store over a collection provider.
func New(provider CollectionProvider) *Store {
	return &Store{provider: provider}
}

// EnsureSchema creates the unique indexes backing idempotent commits.
// Index creation is create-if-absent on the server side.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.provider.Collection(transactionsCollection).CreateUniqueIndex(ctx, "artifact", "row"); err != nil {
		return fmt.Errorf("ensuring transactions index: %w", err)
	}
	if err := s.provider.Collection(commitsCollection).CreateUniqueIndex(ctx, "artifact"); err != nil {
		return fmt.Errorf("ensuring commits index: %w", err)
	}
	return nil
}

// Committed reports whether a commit marker exists for the artifact.
func (s *Store) Committed(ctx context.Context, artifact string) (bool, error) {
	n, err := s.provider.Collection(commitsCollection).CountDocuments(ctx, bson.M{"artifact": artifact})
	if err != nil {
		return false, fmt.Errorf("checking commit marker for %s: %w", artifact, err)
	}
	return n > 0, nil
}

// Insert upserts the batch rows keyed by (artifact, row) and then writes
// the commit marker. Re-running after a partial failure re-upserts the
// same keys, so no duplicates appear and the marker is only written once
// all rows are in.
func (s *Store) Insert(ctx context.Context, artifact string, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(txns))
	for i, txn := range txns {
		doc := transactionDoc{
			Artifact:    artifact,
			Row:         i,
			Date:        txn.Date.Format(dateFormat),
			Description: txn.Description,
			Amount:      txn.Amount.StringFixed(2),
			Category:    string(txn.Category),
		}
		filter := bson.M{"artifact": artifact, "row": i}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
	}

	coll := s.provider.Collection(transactionsCollection)
	if _, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk upsert for %s: %w", artifact, err)
	}

	marker := commitDoc{Artifact: artifact, Rows: len(txns), CommittedAt: time.Now().UTC()}
	commits := s.provider.Collection(commitsCollection)
	markerModel := mongo.NewUpdateOneModel().
		SetFilter(bson.M{"artifact": artifact}).
		SetUpdate(bson.M{"$set": marker}).
		SetUpsert(true)
	if _, err := commits.BulkWrite(ctx, []mongo.WriteModel{markerModel}); err != nil {
		return fmt.Errorf("writing commit marker for %s: %w", artifact, err)
	}
	return nil
}

// ReadAll returns every stored transaction ordered by artifact then row.
func (s *Store) ReadAll(ctx context.Context) ([]model.Transaction, error) {
	coll := s.provider.Collection(transactionsCollection)
	cur, err := coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "artifact", Value: 1}, {Key: "row", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer cur.Close(ctx)

	var all []model.Transaction
	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding transaction: %w", err)
		}
		txn, err := docToTransaction(doc)
		if err != nil {
			return nil, err
		}
		all = append(all, txn)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return all, nil
}

func docToTransaction(doc transactionDoc) (model.Transaction, error) {
	date, err := time.Parse(dateFormat, doc.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing stored date %q: %w", doc.Date, err)
	}
	amount, err := decimal.NewFromString(doc.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing stored amount %q: %w", doc.Amount, err)
	}
	return model.Transaction{
		Date:        date,
		Description: doc.Description,
		Amount:      amount,
		Category:    model.Category(doc.Category),
	}, nil
}
