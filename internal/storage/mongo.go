package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/terra-clan/company-site/internal/models"
)

// MongoConfig holds document store connection configuration
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoRepository implements Repository on a MongoDB database, one
// collection per entity
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database

	services   *mongoCollection[models.Service, *models.Service]
	posts      *mongoCollection[models.Post, *models.Post]
	projects   *mongoCollection[models.Project, *models.Project]
	careers    *mongoCollection[models.Career, *models.Career]
	heroImages *mongoCollection[models.HeroImage, *models.HeroImage]
	settings   *mongoCollection[models.SiteSettings, *models.SiteSettings]
	contacts   *mongoCollection[models.ContactSubmission, *models.ContactSubmission]
	admins     *mongoCollection[models.AdminUser, *models.AdminUser]
}

// OpenMongo connects to MongoDB, verifies connectivity and ensures indexes
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoRepository, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout)
		opts.SetServerSelectionTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	repo := NewMongoRepository(client, cfg.Database)
	if err := repo.Ping(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	if err := repo.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return repo, nil
}

// NewMongoRepository wraps a connected client
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{
		client:     client,
		db:         db,
		services:   newMongoCollection[models.Service](db),
		posts:      newMongoCollection[models.Post](db),
		projects:   newMongoCollection[models.Project](db),
		careers:    newMongoCollection[models.Career](db),
		heroImages: newMongoCollection[models.HeroImage](db),
		settings:   newMongoCollection[models.SiteSettings](db),
		contacts:   newMongoCollection[models.ContactSubmission](db),
		admins:     newMongoCollection[models.AdminUser](db),
	}
}

func (r *MongoRepository) Services() Collection[models.Service]     { return r.services }
func (r *MongoRepository) Posts() Collection[models.Post]           { return r.posts }
func (r *MongoRepository) Projects() Collection[models.Project]     { return r.projects }
func (r *MongoRepository) Careers() Collection[models.Career]       { return r.careers }
func (r *MongoRepository) HeroImages() Collection[models.HeroImage] { return r.heroImages }
func (r *MongoRepository) Settings() Collection[models.SiteSettings] {
	return r.settings
}
func (r *MongoRepository) Contacts() Collection[models.ContactSubmission] {
	return r.contacts
}
func (r *MongoRepository) Admins() Collection[models.AdminUser] { return r.admins }

// EnsureIndexes creates the unique indexes backing slug and email lookups
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	for coll, field := range UniqueFields {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create %s.%s index: %w", coll, field, err)
		}
	}

	if _, err := r.db.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "date", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create posts.category index: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// mongoCollection implements Collection for one document collection
type mongoCollection[T any, P record[T]] struct {
	coll *mongo.Collection
}

func newMongoCollection[T any, P record[T]](db *mongo.Database) *mongoCollection[T, P] {
	return &mongoCollection[T, P]{coll: db.Collection(tableName[T]())}
}

func (c *mongoCollection[T, P]) Find(ctx context.Context, q Query) ([]T, error) {
	filter := bson.M{}
	for k, v := range q.Where {
		filter[k] = v
	}
	for k, v := range q.Exclude {
		filter[k] = bson.M{"$ne": v}
	}
	if q.Match.active() {
		pattern := regexp.QuoteMeta(q.Match.Term)
		or := make(bson.A, 0, len(q.Match.Fields))
		for _, field := range q.Match.Fields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return items, nil
}

func (c *mongoCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", c.coll.Name(), id, err)
	}
	return &item, nil
}

func (c *mongoCollection[T, P]) Create(ctx context.Context, item *T) error {
	p := P(item)
	if p.GetID() == "" {
		p.SetID(models.NewID())
	}
	p.Touch(time.Now().UTC())

	if _, err := c.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection[T, P]) Update(ctx context.Context, item *T) error {
	p := P(item)
	id := p.GetID()
	if id == "" {
		return ErrNotFound
	}
	p.Touch(time.Now().UTC())

	raw, err := bson.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", c.coll.Name(), id, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", c.coll.Name(), id, err)
	}
	delete(fields, "_id")
	delete(fields, "created_at")

	result, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update %s %s: %w", c.coll.Name(), id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(item); err != nil {
		return fmt.Errorf("failed to reload %s %s: %w", c.coll.Name(), id, err)
	}
	return nil
}

func (c *mongoCollection[T, P]) Delete(ctx context.Context, id string) error {
	result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.coll.Name(), id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Drop removes the whole database
func (r *MongoRepository) Drop(ctx context.Context) error {
	return r.db.Drop(ctx)
}
