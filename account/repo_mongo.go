package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountRepository struct {
	collection *mongo.Collection
}

// dbAccount is the persisted shape of an Account. The hash and reset
// pair live only here and in the entity's unexported fields; they are
// never serialized to API callers.
type dbAccount struct {
	ID           ID           `bson:"_id"`
	FullName     string       `bson:"fullName"`
	Email        string       `bson:"email"`
	Password     string       `bson:"password"`
	Role         Role         `bson:"role"`
	Avatar       Avatar       `bson:"avatar"`
	Subscription Subscription `bson:"subscription"`
	ResetDigest  string       `bson:"forgotPasswordToken,omitempty"`
	ResetExpiry  time.Time    `bson:"forgotPasswordExpiry,omitempty"`
	CreatedAt    time.Time    `bson:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt"`
}

func NewMongoAccountRepository(c *mongo.Collection) Repository {
	return &mongoAccountRepository{collection: c}
}

// EnsureAccountIndexes creates the unique email index backing the
// one-account-per-email invariant.
func EnsureAccountIndexes(ctx context.Context, c *mongo.Collection) error {
	_, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *mongoAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return m.findAccountBy(ctx, bson.M{"_id": string(id)})
}

func (m *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return m.findAccountBy(ctx, bson.M{"email": email})
}

func (m *mongoAccountRepository) FindByResetDigest(ctx context.Context, digest string) (*Account, error) {
	return m.findAccountBy(ctx, bson.M{"forgotPasswordToken": digest})
}

func (m *mongoAccountRepository) findAccountBy(ctx context.Context, filter bson.M) (*Account, error) {
	var dba dbAccount
	sr := m.collection.FindOne(ctx, filter)

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&dba); err != nil {
		return nil, err
	}

	acc := accountFromDBAccount(dba)
	return &acc, nil
}

func (m *mongoAccountRepository) Store(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	if _, err := m.collection.InsertOne(ctx, &dba); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrExistingEmail
		}
		return err
	}
	return nil
}

func (m *mongoAccountRepository) Update(ctx context.Context, acc *Account) error {
	dba := dbAccountFromAccount(acc)
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": dba.ID}, dba)
	return err
}

func dbAccountFromAccount(a *Account) dbAccount {
	return dbAccount{
		ID:           a.ID,
		FullName:     a.FullName,
		Email:        a.Email,
		Password:     a.passwordHash,
		Role:         a.Role,
		Avatar:       a.Avatar,
		Subscription: a.Subscription,
		ResetDigest:  a.resetDigest,
		ResetExpiry:  a.resetExpiry,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func accountFromDBAccount(dba dbAccount) Account {
	return Account{
		ID:           dba.ID,
		FullName:     dba.FullName,
		Email:        dba.Email,
		Role:         dba.Role,
		Avatar:       dba.Avatar,
		Subscription: dba.Subscription,
		CreatedAt:    dba.CreatedAt,
		UpdatedAt:    dba.UpdatedAt,
		passwordHash: dba.Password,
		resetDigest:  dba.ResetDigest,
		resetExpiry:  dba.ResetExpiry,
	}
}
