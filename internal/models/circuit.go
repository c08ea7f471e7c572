package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCircuitNotFound = errors.New("circuit not found")

// Circuit is a sized circuit saved from the calculator page. Result is the
// engine output for Request at the time it was saved.
type Circuit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Project   string             `bson:"project" json:"project"`
	Owner     string             `bson:"owner" json:"owner"`
	Request   CableSizeRequest   `bson:"request" json:"request"`
	Result    CableSizeResult    `bson:"result" json:"result"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CircuitFilter narrows List. Empty fields match everything.
type CircuitFilter struct {
	Owner   string
	Project string
}

type CircuitRepository struct {
	coll *mongo.Collection
}

func NewCircuitRepository(coll *mongo.Collection) *CircuitRepository {
	return &CircuitRepository{coll: coll}
}

func (r *CircuitRepository) Insert(ctx context.Context, c *Circuit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

// List returns matching circuits, newest first.
func (r *CircuitRepository) List(ctx context.Context, f CircuitFilter) ([]Circuit, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := bson.M{}
	if f.Owner != "" {
		query["owner"] = f.Owner
	}
	if f.Project != "" {
		query["project"] = f.Project
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	circuits := []Circuit{}
	if err := cur.All(ctx, &circuits); err != nil {
		return nil, err
	}
	return circuits, nil
}

func (r *CircuitRepository) Get(ctx context.Context, id primitive.ObjectID) (*Circuit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Circuit
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCircuitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the editable fields of c.
func (r *CircuitRepository) Update(ctx context.Context, c *Circuit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":       c.Name,
		"project":    c.Project,
		"request":    c.Request,
		"result":     c.Result,
		"updated_at": c.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCircuitNotFound
	}
	return nil
}

func (r *CircuitRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCircuitNotFound
	}
	return nil
}
