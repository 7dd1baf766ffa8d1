package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

type ListRepository struct {
	col     *mongo.Collection
	users   *mongo.Collection
	entries *mongo.Collection
	seq     sequence
}

func NewListRepository(db *mongo.Database) *ListRepository {
	return &ListRepository{
		col:     db.Collection(collectionLists),
		users:   db.Collection(collectionUsers),
		entries: db.Collection(collectionListAnime),
		seq:     newSequence(db),
	}
}

// Insert assigns the next list id and stores l. The owner must exist.
func (r *ListRepository) Insert(ctx context.Context, l *domain.List) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := requireRef(ctx, r.users, "user", l.UserID); err != nil {
		return err
	}

	id, err := r.seq.next(ctx, collectionLists)
	if err != nil {
		return err
	}
	l.ID = id

	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return writeError("insert list", err)
	}
	return nil
}

func (r *ListRepository) FindByUser(ctx context.Context, userID int64) ([]domain.List, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find lists: %w: %v", domain.ErrStorageFailure, err)
	}
	defer cur.Close(ctx)

	lists := make([]domain.List, 0)
	if err := cur.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("decode lists: %w: %v", domain.ErrStorageFailure, err)
	}
	return lists, nil
}

func (r *ListRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.col, bson.M{"_id": id})
}

func (r *ListRepository) Owner(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		UserID int64 `bson:"user_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"user_id": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return 0, readError("find list owner", err)
	}
	return doc.UserID, nil
}

// Delete removes the list and its entries.
func (r *ListRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return writeError("delete list", err)
	}
	if res.DeletedCount == 0 {
		return readError("delete list", mongo.ErrNoDocuments)
	}

	if _, err := r.entries.DeleteMany(ctx, bson.M{"list_id": id}); err != nil {
		return writeError("delete list entries", err)
	}
	return nil
}
