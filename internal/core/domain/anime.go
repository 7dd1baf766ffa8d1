package domain

// Anime is a catalog entry.
type Anime struct {
	ID          int64  `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Seasons     int    `json:"seasons" bson:"seasons"`
	Episodes    int    `json:"episodes" bson:"episodes"`
	ReleaseYear int    `json:"release_year" bson:"release_year"`
}

// Merge overwrites only the non-empty, non-zero fields of patch.
func (a *Anime) Merge(patch Anime) {
	if patch.Title != "" {
		a.Title = patch.Title
	}
	if patch.Seasons > 0 {
		a.Seasons = patch.Seasons
	}
	if patch.Episodes > 0 {
		a.Episodes = patch.Episodes
	}
	if patch.ReleaseYear > 0 {
		a.ReleaseYear = patch.ReleaseYear
	}
}
