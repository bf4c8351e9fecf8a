package payment

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaymentRepository struct {
	collection *mongo.Collection
}

func NewMongoPaymentRepository(c *mongo.Collection) Repository {
	return &mongoPaymentRepository{collection: c}
}

func (m *mongoPaymentRepository) Store(ctx context.Context, p *Payment) error {
	_, err := m.collection.InsertOne(ctx, p)
	return err
}

func (m *mongoPaymentRepository) FindLatest(ctx context.Context, count int, skip int) ([]Payment, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(count)).
		SetSkip(int64(skip))

	cur, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var payments []Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
