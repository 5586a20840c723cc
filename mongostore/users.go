package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/castlelock/authcore"
)

// opTimeout bounds every single database call.
const opTimeout = 5 * time.Second

// storeErr wraps a driver failure in the sentinel the engine reports for
// backend outages.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", authcore.ErrStoreUnavailable, err)
}

// userDoc is the persisted shape of an account.
type userDoc struct {
	ID             string                 `bson:"_id"`
	Name           string                 `bson:"name"`
	Email          string                 `bson:"email"`
	PasswordHash   string                 `bson:"password"`
	Verified       bool                   `bson:"isVerified"`
	Locked         bool                   `bson:"isLocked"`
	SignInAttempts int                    `bson:"signInAttempts"`
	Role           authcore.Role          `bson:"role"`
	Permissions    []authcore.Permission  `bson:"permissions,omitempty"`
	CreatedAt      time.Time              `bson:"createdAt"`
	UpdatedAt      time.Time              `bson:"updatedAt"`
}

func (d userDoc) toUser() authcore.User {
	return authcore.User{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Verified:       d.Verified,
		Locked:         d.Locked,
		SignInAttempts: d.SignInAttempts,
		Role:           d.Role,
		Permissions:    d.Permissions,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// UserStore implements authcore.UserStore on a MongoDB collection.
type UserStore struct {
	users *mongo.Collection
}

// NewUserStore wraps the users collection of db.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Call it once at startup.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *UserStore) Create(ctx context.Context, input authcore.CreateUserInput) (authcore.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := userDoc{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return authcore.User{}, authcore.ErrEmailTaken
		}
		return authcore.User{}, storeErr(err)
	}
	return doc.toUser(), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (authcore.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByID(ctx context.Context, id string) (authcore.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (authcore.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return authcore.User{}, authcore.ErrUserNotFound
		}
		return authcore.User{}, storeErr(err)
	}
	return doc.toUser(), nil
}

// RecordFailedSignIn bumps the attempt counter and flips the lock flag
// once it reaches maxAttempts. The increment and the lock decision happen
// in one pipeline update so concurrent failures cannot overshoot.
func (s *UserStore) RecordFailedSignIn(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"signInAttempts": bson.M{"$add": bson.A{"$signInAttempts", 1}},
		}},
		bson.M{"$set": bson.M{
			"isLocked":  bson.M{"$gte": bson.A{"$signInAttempts", maxAttempts}},
			"updatedAt": time.Now().UTC(),
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, authcore.ErrUserNotFound
		}
		return 0, false, storeErr(err)
	}
	return doc.SignInAttempts, doc.Locked, nil
}

func (s *UserStore) ResetSignInAttempts(ctx context.Context, id string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"signInAttempts": 0,
		"isLocked":       false,
		"updatedAt":      time.Now().UTC(),
	}})
}

// UpdatePassword stores the new hash and clears any sign-in lockout so a
// recovered account can sign in immediately.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"password":       passwordHash,
		"signInAttempts": 0,
		"isLocked":       false,
		"updatedAt":      time.Now().UTC(),
	}})
}

// MarkVerified flips the verification flag and reports whether the account
// was verified before the call.
func (s *UserStore) MarkVerified(ctx context.Context, id string) (authcore.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"isVerified": true,
		"updatedAt":  time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return authcore.User{}, false, authcore.ErrUserNotFound
		}
		return authcore.User{}, false, storeErr(err)
	}

	user := before.toUser()
	alreadyVerified := user.Verified
	user.Verified = true
	return user, alreadyVerified, nil
}

func (s *UserStore) updateOne(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storeErr(err)
	}
	if res.MatchedCount == 0 {
		return authcore.ErrUserNotFound
	}
	return nil
}
