package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

type AnimeRepository struct {
	col     *mongo.Collection
	entries *mongo.Collection
	seq     sequence
}

func NewAnimeRepository(db *mongo.Database) *AnimeRepository {
	return &AnimeRepository{
		col:     db.Collection(collectionAnime),
		entries: db.Collection(collectionListAnime),
		seq:     newSequence(db),
	}
}

func (r *AnimeRepository) Insert(ctx context.Context, a *domain.Anime) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionAnime)
	if err != nil {
		return err
	}
	a.ID = id

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return writeError("insert anime", err)
	}
	return nil
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	return r.find(ctx, bson.M{})
}

func (r *AnimeRepository) SearchByPrefix(ctx context.Context, prefix string) ([]domain.Anime, error) {
	return r.find(ctx, titlePrefixFilter(prefix))
}

// titlePrefixFilter matches titles beginning with prefix, ignoring case.
// The prefix is matched literally.
func titlePrefixFilter(prefix string) bson.M {
	return bson.M{"title": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}}
}

func (r *AnimeRepository) find(ctx context.Context, filter bson.M) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find anime: %w: %v", domain.ErrStorageFailure, err)
	}
	defer cur.Close(ctx)

	items := make([]domain.Anime, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode anime: %w: %v", domain.ErrStorageFailure, err)
	}
	return items, nil
}

func (r *AnimeRepository) FindByID(ctx context.Context, id int64) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Anime
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, readError("find anime", err)
	}
	return &a, nil
}

func (r *AnimeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.col, bson.M{"_id": id})
}

func (r *AnimeRepository) Update(ctx context.Context, a *domain.Anime) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"title":        a.Title,
		"seasons":      a.Seasons,
		"episodes":     a.Episodes,
		"release_year": a.ReleaseYear,
	}})
	if err != nil {
		return writeError("update anime", err)
	}
	if res.MatchedCount == 0 {
		return readError("update anime", mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a catalog entry. An anime still on any list is kept.
func (r *AnimeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	listed, err := exists(ctx, r.entries, bson.M{"anime_id": id})
	if err != nil {
		return err
	}
	if listed {
		return fmt.Errorf("%w: anime %d is still in a list", domain.ErrReferenceViolation, id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return writeError("delete anime", err)
	}
	if res.DeletedCount == 0 {
		return readError("delete anime", mongo.ErrNoDocuments)
	}
	return nil
}
