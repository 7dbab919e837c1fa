package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// mongoUser is the persistence shape. IDs are the generated UUID strings,
// not ObjectIDs, so tokens and URLs never depend on Mongo internals.
type mongoUser struct {
	ID             string `bson:"_id"`
	FirstName      string `bson:"first_name"`
	LastName       string `bson:"last_name"`
	OtherNames     string `bson:"other_names,omitempty"`
	DisplayName    string `bson:"display_name"`
	Birthdate      string `bson:"birthdate"`
	Gender         string `bson:"gender"`
	Country        string `bson:"country"`
	Email          string `bson:"email"`
	PhoneNumber    string `bson:"phone_number"`
	Address        string `bson:"address"`
	ProfilePicture string `bson:"profile_picture"`
	Role           string `bson:"role"`

	PasswordHash         string `bson:"password_hash"`
	PasswordResetToken   string `bson:"password_reset_token,omitempty"`
	PasswordResetExpires int64  `bson:"password_reset_expires,omitempty"`
	PasswordChangedAt    int64  `bson:"password_changed_at"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

// EnsureIndexes creates the unique constraints on email and display name.
// Call once at startup; index creation is idempotent.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "display_name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "password_reset_token", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := r.coll.InsertOne(ctx, toDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":   tokenHash,
		"password_reset_expires": bson.M{"$gt": now.Unix()},
	})
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromDoc(&mu), nil
}

func toDoc(u *domain.User) *mongoUser {
	return &mongoUser{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		OtherNames:           u.OtherNames,
		DisplayName:          u.DisplayName,
		Birthdate:            u.Birthdate,
		Gender:               u.Gender,
		Country:              u.Country,
		Email:                u.Email,
		PhoneNumber:          u.PhoneNumber,
		Address:              u.Address,
		ProfilePicture:       u.ProfilePicture,
		Role:                 u.Role,
		PasswordHash:         u.PasswordHash,
		PasswordResetToken:   u.PasswordResetToken,
		PasswordResetExpires: timeToUnix(u.PasswordResetExpires),
		PasswordChangedAt:    timeToUnix(u.PasswordChangedAt),
		CreatedAt:            timeToUnix(u.CreatedAt),
		UpdatedAt:            timeToUnix(u.UpdatedAt),
	}
}

func fromDoc(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:                   mu.ID,
		FirstName:            mu.FirstName,
		LastName:             mu.LastName,
		OtherNames:           mu.OtherNames,
		DisplayName:          mu.DisplayName,
		Birthdate:            mu.Birthdate,
		Gender:               mu.Gender,
		Country:              mu.Country,
		Email:                mu.Email,
		PhoneNumber:          mu.PhoneNumber,
		Address:              mu.Address,
		ProfilePicture:       mu.ProfilePicture,
		Role:                 mu.Role,
		PasswordHash:         mu.PasswordHash,
		PasswordResetToken:   mu.PasswordResetToken,
		PasswordResetExpires: unixToTime(mu.PasswordResetExpires),
		PasswordChangedAt:    unixToTime(mu.PasswordChangedAt),
		CreatedAt:            unixToTime(mu.CreatedAt),
		UpdatedAt:            unixToTime(mu.UpdatedAt),
	}
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
