package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"tenantadmin/internal/sentinel"
	"tenantadmin/internal/tenant/models"
	id "tenantadmin/pkg/domain"
)

// CollectionName is the single collection this service owns.
const CollectionName = "tenants"

// Mongo persists tenants in a MongoDB collection. Single-document writes are
// atomic; there is no multi-document transaction across bulk operations.
type Mongo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
}

// NewMongo constructs a MongoDB-backed tenant store.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		coll:   db.Collection(CollectionName),
		tracer: otel.Tracer("tenantadmin/tenant/store"),
	}
}

// Indexes returns the index set for the tenants collection. The unique email
// index is what turns duplicate contact emails into conflict errors; emails
// are stored lowercased so the uniqueness is case-insensitive.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contact_email", Value: 1}},
			Options: options.Index().SetName("uniq_contact_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created_at"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
		{
			Keys:    bson.D{{Key: "metadata.industry", Value: 1}},
			Options: options.Index().SetName("idx_metadata_industry"),
		},
		{
			Keys:    bson.D{{Key: "metadata.region", Value: 1}},
			Options: options.Index().SetName("idx_metadata_region"),
		},
		{
			Keys:    bson.D{{Key: "metadata.country", Value: 1}},
			Options: options.Index().SetName("idx_metadata_country"),
		},
	}
}

// EnsureIndexes creates the collection indexes. Called once at startup.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, Indexes())
	if err != nil {
		return fmt.Errorf("create tenant indexes: %w", err)
	}
	return nil
}

// Insert adds a new tenant document.
func (s *Mongo) Insert(ctx context.Context, t *models.Tenant) error {
	ctx, span := s.start(ctx, "tenant.insert", t.ID)
	_, err := s.coll.InsertOne(ctx, t)
	return s.end(span, translate(err))
}

// FindByID retrieves a tenant document by id.
func (s *Mongo) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	ctx, span := s.start(ctx, "tenant.find_by_id", tenantID)
	var t models.Tenant
	err := s.coll.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&t)
	if err != nil {
		return nil, s.end(span, translate(err))
	}
	_ = s.end(span, nil)
	return &t, nil
}

// Replace overwrites the stored document with the given one. The replace is a
// single-document atomic write; concurrent replacements resolve last-write-wins.
func (s *Mongo) Replace(ctx context.Context, t *models.Tenant) error {
	ctx, span := s.start(ctx, "tenant.replace", t.ID)
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return s.end(span, translate(err))
	}
	if res.MatchedCount == 0 {
		return s.end(span, sentinel.ErrNotFound)
	}
	return s.end(span, nil)
}

// Delete removes a tenant document by id.
func (s *Mongo) Delete(ctx context.Context, tenantID id.TenantID) error {
	ctx, span := s.start(ctx, "tenant.delete", tenantID)
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": tenantID})
	if err != nil {
		return s.end(span, translate(err))
	}
	if res.DeletedCount == 0 {
		return s.end(span, sentinel.ErrNotFound)
	}
	return s.end(span, nil)
}

// DeleteMany removes every listed tenant that exists and reports how many
// documents were removed.
func (s *Mongo) DeleteMany(ctx context.Context, ids []id.TenantID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.delete_many",
		trace.WithAttributes(attribute.Int("tenant.count", len(ids))))
	res, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, s.end(span, translate(err))
	}
	_ = s.end(span, nil)
	return res.DeletedCount, nil
}

// List returns one page of tenants matching the query plus the total match
// count. The page fetch and the count run concurrently.
func (s *Mongo) List(ctx context.Context, q ListQuery) ([]*models.Tenant, int64, error) {
	q = q.Normalize()
	filter := listFilter(q)

	order := -1
	if q.Ascending {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: order}}).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))

	ctx, span := s.tracer.Start(ctx, "tenant.list")

	var (
		tenants []*models.Tenant
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := s.coll.Find(gctx, filter, opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &tenants)
	})
	g.Go(func() error {
		var err error
		total, err = s.coll.CountDocuments(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, s.end(span, translate(err))
	}
	_ = s.end(span, nil)
	return tenants, total, nil
}

func listFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.Industry != "" {
		filter["industry"] = q.Industry
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"industry": pattern},
		}
	}
	return filter
}

// translate maps driver errors onto store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return sentinel.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", sentinel.ErrDuplicateEmail, err)
	case errors.Is(err, mongo.ErrClientDisconnected), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	default:
		return err
	}
}

func (s *Mongo) start(ctx context.Context, name string, tenantID id.TenantID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("tenant.id", tenantID.Hex())))
}

// end records the outcome on the span and passes the error through.
func (s *Mongo) end(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}
