package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

type UserRepository struct {
	col     *mongo.Collection
	lists   *mongo.Collection
	entries *mongo.Collection
	seq     sequence
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:     db.Collection(collectionUsers),
		lists:   db.Collection(collectionLists),
		entries: db.Collection(collectionListAnime),
		seq:     newSequence(db),
	}
}

// Insert assigns the next user id and stores u.
func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionUsers)
	if err != nil {
		return err
	}
	u.ID = id

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return writeError("insert user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, readError("find user", err)
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.col, bson.M{"_id": id})
}

// Update writes the profile fields of u. Email, role and credential are not
// touched.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.set(ctx, u.ID, bson.M{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"age":        u.Age,
		"updated_at": u.UpdatedAt,
	})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.set(ctx, id, bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	})
}

func (r *UserRepository) set(ctx context.Context, id int64, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return writeError("update user", err)
	}
	if res.MatchedCount == 0 {
		return readError("update user", mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes the account together with its lists and their entries.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return writeError("delete user", err)
	}
	if res.DeletedCount == 0 {
		return readError("delete user", mongo.ErrNoDocuments)
	}

	cur, err := r.lists.Find(ctx, bson.M{"user_id": id}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return writeError("find user lists", err)
	}
	var owned []struct {
		ID int64 `bson:"_id"`
	}
	if err := cur.All(ctx, &owned); err != nil {
		return writeError("decode user lists", err)
	}
	if len(owned) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(owned))
	for _, l := range owned {
		ids = append(ids, l.ID)
	}
	if _, err := r.entries.DeleteMany(ctx, bson.M{"list_id": bson.M{"$in": ids}}); err != nil {
		return writeError("delete user list entries", err)
	}
	if _, err := r.lists.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return writeError("delete user lists", err)
	}
	return nil
}
