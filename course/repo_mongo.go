package course

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCourseRepository struct {
	collection *mongo.Collection
}

func NewMongoCourseRepository(c *mongo.Collection) Repository {
	return &mongoCourseRepository{collection: c}
}

func (m *mongoCourseRepository) FindAll(ctx context.Context) ([]Course, error) {
	// catalog listings never carry the lecture payload
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"lectures": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (m *mongoCourseRepository) FindByID(ctx context.Context, id CourseID) (*Course, error) {
	var c Course
	sr := m.collection.FindOne(ctx, bson.M{"_id": string(id)})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrCourseNotFound
	}

	if err := sr.Decode(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (m *mongoCourseRepository) Store(ctx context.Context, c *Course) error {
	_, err := m.collection.InsertOne(ctx, c)
	return err
}

func (m *mongoCourseRepository) Update(ctx context.Context, c *Course) error {
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	return err
}

func (m *mongoCourseRepository) Delete(ctx context.Context, id CourseID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCourseNotFound
	}
	return nil
}
