package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/animelist/watchlist-api/internal/core/domain"
)

// ListEntryRepository stores list membership. Every mutation is keyed by the
// (list_id, anime_id) pair.
type ListEntryRepository struct {
	col   *mongo.Collection
	lists *mongo.Collection
	anime *mongo.Collection
}

func NewListEntryRepository(db *mongo.Database) *ListEntryRepository {
	return &ListEntryRepository{
		col:   db.Collection(collectionListAnime),
		lists: db.Collection(collectionLists),
		anime: db.Collection(collectionAnime),
	}
}

func entryKey(listID, animeID int64) bson.M {
	return bson.M{"list_id": listID, "anime_id": animeID}
}

// Insert stores e. Both the list and the anime must exist.
func (r *ListEntryRepository) Insert(ctx context.Context, e *domain.ListEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := requireRef(ctx, r.lists, "list", e.ListID); err != nil {
		return err
	}
	if err := requireRef(ctx, r.anime, "anime", e.AnimeID); err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return writeError("insert list entry", err)
	}
	return nil
}

// FindByList returns the entries of a list joined with the catalog.
func (r *ListEntryRepository) FindByList(ctx context.Context, listID int64) ([]domain.ListEntryView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"list_id": listID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionAnime,
			"localField":   "anime_id",
			"foreignField": "_id",
			"as":           "anime",
		}}},
		{{Key: "$unwind", Value: "$anime"}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"list_id":      1,
			"anime_id":     1,
			"status":       1,
			"title":        "$anime.title",
			"seasons":      "$anime.seasons",
			"episodes":     "$anime.episodes",
			"release_year": "$anime.release_year",
		}}},
		{{Key: "$sort", Value: bson.M{"anime_id": 1}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate list entries: %w: %v", domain.ErrStorageFailure, err)
	}
	defer cur.Close(ctx)

	views := make([]domain.ListEntryView, 0)
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode list entries: %w: %v", domain.ErrStorageFailure, err)
	}
	return views, nil
}

func (r *ListEntryRepository) Exists(ctx context.Context, listID, animeID int64) (bool, error) {
	return exists(ctx, r.col, entryKey(listID, animeID))
}

func (r *ListEntryRepository) UpdateStatus(ctx context.Context, e *domain.ListEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, entryKey(e.ListID, e.AnimeID), bson.M{"$set": bson.M{"status": e.Status}})
	if err != nil {
		return writeError("update list entry", err)
	}
	if res.MatchedCount == 0 {
		return readError("update list entry", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *ListEntryRepository) Delete(ctx context.Context, listID, animeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, entryKey(listID, animeID))
	if err != nil {
		return writeError("delete list entry", err)
	}
	if res.DeletedCount == 0 {
		return readError("delete list entry", mongo.ErrNoDocuments)
	}
	return nil
}
