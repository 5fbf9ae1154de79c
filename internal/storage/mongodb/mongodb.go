// Package mongodb stores each workspace snapshot as a single MongoDB document.
// Replacing one document is atomic, which gives the all-or-nothing snapshot
// semantics storage.Store requires without transactions.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/storage"
)

var _ storage.Backend = (*Store)(nil)

const (
	workspacesCollection = "workspaces"
	usersCollection      = "users"
)

// workspaceDocument is the persisted form of one owner's snapshot.
type workspaceDocument struct {
	OwnerID   string               `bson:"_id"`
	Members   []models.Member      `bson:"members"`
	Records   []models.LunchRecord `bson:"records"`
	Payments  []models.Payment     `bson:"payments"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// Store implements storage.Backend on MongoDB.
type Store struct {
	client     *mongo.Client
	workspaces *mongo.Collection
	users      *mongo.Collection
}

// New connects to MongoDB, verifies the connection and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:     client,
		workspaces: db.Collection(workspacesCollection),
		users:      db.Collection(usersCollection),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create users index: %w", err)
	}

	return s, nil
}

// LoadSnapshot fetches the owner's workspace document.
func (s *Store) LoadSnapshot(ctx context.Context, ownerID string) (*models.Snapshot, error) {
	var doc workspaceDocument
	err := s.workspaces.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("snapshot for %s: %w", ownerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	snapshot := fromDocument(doc)
	return &snapshot, nil
}

// SaveSnapshot upserts the owner's workspace document.
func (s *Store) SaveSnapshot(ctx context.Context, ownerID string, snapshot models.Snapshot) error {
	doc := toDocument(ownerID, snapshot, time.Now().UTC())
	_, err := s.workspaces.ReplaceOne(ctx, bson.M{"_id": ownerID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

// CreateUser inserts a new user document.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	u := *user
	u.Email = strings.ToLower(u.Email)
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns (nil, nil) when no user has the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetUserByID returns (nil, nil) when no user has the ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(ownerID string, snapshot models.Snapshot, now time.Time) workspaceDocument {
	s := snapshot.Clone()
	return workspaceDocument{
		OwnerID:   ownerID,
		Members:   s.Members,
		Records:   s.Records,
		Payments:  s.Payments,
		UpdatedAt: now,
	}
}

// fromDocument restores empty collections that BSON decodes as nil.
func fromDocument(doc workspaceDocument) models.Snapshot {
	return models.Snapshot{
		Members:  doc.Members,
		Records:  doc.Records,
		Payments: doc.Payments,
	}.Clone()
}
