package mongostore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"loanrisk-backend/internal/domain/audit"
)

var (
	_ audit.Sink  = (*AuditStore)(nil)
	_ audit.Store = (*AuditStore)(nil)
)

const appendTimeout = 3 * time.Second

// collection is the subset of *mongo.Collection used here.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// AuditStore writes audit documents to MongoDB. Append is fire-and-forget;
// Insert and FindByUser are synchronous.
type AuditStore struct {
	coll    func(name string) collection
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewAuditStore(db *mongo.Database, log *zap.Logger) *AuditStore {
	return newAuditStore(func(name string) collection { return db.Collection(name) }, log)
}

func newAuditStore(coll func(string) collection, log *zap.Logger) *AuditStore {
	return &AuditStore{coll: coll, log: log, timeout: appendTimeout, now: time.Now}
}

// Append copies rec and inserts it on its own goroutine. The request
// context's cancellation is dropped: the write may outlive the response.
func (s *AuditStore) Append(ctx context.Context, name string, rec audit.Record) {
	doc := s.document(rec)
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Warn("audit append panicked", zap.String("collection", name), zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if _, err := s.coll(name).InsertOne(ctx, doc); err != nil {
			s.log.Warn("audit append failed", zap.String("collection", name), zap.Error(err))
		}
	}()
}

func (s *AuditStore) Insert(ctx context.Context, name string, rec audit.Record) (string, error) {
	res, err := s.coll(name).InsertOne(ctx, s.document(rec))
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", name, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// FindByUser returns the newest documents of one user.
func (s *AuditStore) FindByUser(ctx context.Context, name, userID string, limit int64) ([]audit.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := s.coll(name).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	out := make([]audit.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, toRecord(d))
	}
	return out, nil
}

// Close waits for in-flight appends or until ctx is done.
func (s *AuditStore) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuditStore) document(rec audit.Record) bson.M {
	doc := make(bson.M, len(rec)+1)
	for k, v := range rec {
		doc[k] = v
	}
	if _, ok := doc["timestamp"]; !ok {
		doc["timestamp"] = s.now().UTC()
	}
	return doc
}

// toRecord makes decoded documents JSON friendly.
func toRecord(d bson.M) audit.Record {
	rec := make(audit.Record, len(d))
	for k, v := range d {
		switch t := v.(type) {
		case primitive.ObjectID:
			rec[k] = t.Hex()
		case primitive.DateTime:
			rec[k] = t.Time().UTC().Format(time.RFC3339Nano)
		case bson.M:
			rec[k] = toRecord(t)
		default:
			rec[k] = v
		}
	}
	return rec
}
