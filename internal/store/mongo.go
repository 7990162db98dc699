package store

import (
	"context"
	"errors"
	"strings"

	"github.com/harentsoaR/account-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAccountStore keeps accounts in the "accounts" collection.
type MongoAccountStore struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

func NewMongoAccountStore(db *mongo.Database, logger *zap.Logger) *MongoAccountStore {
	return &MongoAccountStore{
		coll:   db.Collection(accountsCollection),
		logger: logger.Named("MongoAccountStore"),
	}
}

// EnsureIndexes creates the unique email index and the unique sparse phone
// index. Sparse keeps documents without a phone out of the uniqueness check.
func (s *MongoAccountStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(emailIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetName(phoneIndex).SetUnique(true).SetSparse(true)},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		s.logger.Error("Failed to create indexes for accounts collection", zap.Error(err))
		return err
	}
	s.logger.Info("Ensured indexes for accounts collection")
	return nil
}

func (s *MongoAccountStore) Insert(ctx context.Context, account *models.Account) error {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, account); err != nil {
		if dupErr := duplicateKey(err); dupErr != nil {
			s.logger.Warn("Duplicate key on account insert", zap.String("email", account.Email), zap.Error(err))
			return dupErr
		}
		s.logger.Error("Database error during account insert", zap.String("email", account.Email), zap.Error(err))
		return err
	}
	s.logger.Debug("Account inserted", zap.String("accountID", account.ID.Hex()))
	return nil
}

func (s *MongoAccountStore) Update(ctx context.Context, account *models.Account) error {
	set := bson.M{
		"password":      account.Password,
		"email":         account.Email,
		"registered_on": account.RegisteredOn,
		"updated_on":    account.UpdatedOn,
	}
	update := bson.M{"$set": set}
	// Unset instead of storing null so the sparse index skips the document.
	if account.Phone != nil {
		set["phone"] = *account.Phone
	} else {
		update["$unset"] = bson.M{"phone": ""}
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": account.ID}, update)
	if err != nil {
		if dupErr := duplicateKey(err); dupErr != nil {
			s.logger.Warn("Duplicate key on account update", zap.String("accountID", account.ID.Hex()), zap.Error(err))
			return dupErr
		}
		s.logger.Error("Database error during account update", zap.String("accountID", account.ID.Hex()), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	s.logger.Debug("Account updated", zap.String("accountID", account.ID.Hex()))
	return nil
}

func (s *MongoAccountStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoAccountStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error("Database error during account delete", zap.String("accountID", id.Hex()), zap.Error(err))
		return err
	}
	if result.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *MongoAccountStore) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := s.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("Database error fetching account", zap.Error(err))
		return nil, err
	}
	account.MarkPersisted()
	return &account, nil
}

// duplicateKey maps an E11000 error to the matching sentinel, or nil.
func duplicateKey(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				msg = e.Message
				break
			}
		}
	}
	switch {
	case strings.Contains(msg, "index: "+phoneIndex+" "):
		return ErrDuplicatePhone
	default:
		return ErrDuplicateEmail
	}
}
