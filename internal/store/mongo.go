package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lukman83/autolot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores vehicles as whole documents keyed by _id.
type Mongo struct {
	client   *mongo.Client
	vehicles *mongo.Collection
	events   *mongo.Collection
}

// eventDoc stores Meta as a real sub-document instead of raw JSON bytes.
type eventDoc struct {
	models.Event `bson:",inline"`
	Meta         bson.M `bson:"meta"`
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("[store] connected to mongo")

	db := client.Database(database)
	return &Mongo{
		client:   client,
		vehicles: db.Collection("vehicles"),
		events:   db.Collection("analytics_events"),
	}, nil
}

func (m *Mongo) Migrate(ctx context.Context) error {
	_, err := m.vehicles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// UpsertVehicles replaces each document wholesale. Mongo bulk writes are not
// transactional; an ordered write stops at the first failure.
func (m *Mongo) UpsertVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Pictures == nil {
			v.Pictures = []string{}
		}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": v.ID}).
			SetReplacement(v).
			SetUpsert(true))
	}
	_, err := m.vehicles.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

func (m *Mongo) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	cur, err := m.vehicles.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Vehicle
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := m.vehicles.FindOne(ctx, bson.M{"slug": slug},
		options.FindOne().SetSort(bson.D{{Key: "synced_at", Value: -1}, {Key: "_id", Value: 1}})).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *Mongo) InsertEvent(ctx context.Context, ev models.Event) error {
	_, err := m.events.InsertOne(ctx, eventDoc{Event: ev, Meta: metaObject(ev.Meta)})
	return err
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
