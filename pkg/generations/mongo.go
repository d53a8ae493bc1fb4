package generations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type recordModel struct {
	ID          string    `bson:"_id"`
	AccountID   string    `bson:"account_id"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Input       string    `bson:"input"`
	Output      string    `bson:"output"`
	CreditsUsed int64     `bson:"credits_used"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toModel(r *Record) recordModel {
	return recordModel{
		ID:          r.ID.String(),
		AccountID:   r.AccountID.String(),
		Type:        r.Type,
		Title:       r.Title,
		Input:       string(r.Input),
		Output:      r.Output,
		CreditsUsed: r.CreditsUsed,
		CreatedAt:   r.CreatedAt,
	}
}

func fromModel(m recordModel) (Record, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return Record{}, err
	}
	accountID, err := uuid.Parse(m.AccountID)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:          id,
		AccountID:   accountID,
		Type:        m.Type,
		Title:       m.Title,
		Input:       []byte(m.Input),
		Output:      m.Output,
		CreditsUsed: m.CreditsUsed,
		CreatedAt:   m.CreatedAt.UTC(),
	}, nil
}

// MongoStore keeps records in a single collection keyed by the record id.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	if collection == "" {
		collection = "generations"
	}
	return &MongoStore{coll: db.Collection(collection)}
}

// Migrate creates the owner listing index.
func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, r *Record) error {
	if err := prepare(r, time.Now().UTC()); err != nil {
		return err
	}
	_, err := s.coll.InsertOne(ctx, toModel(r))
	return err
}

func (s *MongoStore) ListByAccount(ctx context.Context, accountID uuid.UUID, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)
	filter := bson.D{{Key: "account_id", Value: accountID.String()}}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(Offset(page, limit))).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var models []recordModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}

	items := make([]Record, 0, len(models))
	for _, m := range models {
		r, err := fromModel(m)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return newPage(items, total, page, limit), nil
}

func (s *MongoStore) FindOneByAccount(ctx context.Context, id, accountID uuid.UUID) (*Record, error) {
	var m recordModel
	err := s.coll.FindOne(ctx, bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "account_id", Value: accountID.String()},
	}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r, err := fromModel(m)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
