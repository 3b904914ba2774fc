package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adiwinata/gudangbot/internal/domain/models"
)

// Repository defines the interface for the transaction audit trail.
type Repository interface {
	SaveTransaction(ctx context.Context, record models.TransactionRecord) error
}

// transactionDocument is the persisted shape of one committed movement.
type transactionDocument struct {
	Timestamp time.Time `bson:"timestamp"`
	PartID    string    `bson:"part_id"`
	Jenis     string    `bson:"jenis"`
	Jumlah    int       `bson:"jumlah"`
	Kondisi   string    `bson:"kondisi"`
	UserID    string    `bson:"user_id"`
	Tujuan    string    `bson:"tujuan"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "transactions",
	}, nil
}

// SaveTransaction stores an audit copy of a committed movement. The sheet
// remains the system of record; this collection only serves reporting.
func (r *MongoDBRepository) SaveTransaction(ctx context.Context, record models.TransactionRecord) error {
	doc := transactionDocument{
		Timestamp: record.Timestamp,
		PartID:    record.PartID,
		Jenis:     string(record.Jenis),
		Jumlah:    record.Jumlah,
		Kondisi:   record.Kondisi,
		UserID:    record.UserID,
		Tujuan:    record.Tujuan,
		CreatedAt: time.Now().UTC(),
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert transaction audit record: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
