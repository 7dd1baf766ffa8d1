package domain

// WatchStatus is the progress of a user on an anime inside one of their lists.
type WatchStatus string

const (
	StatusWatching    WatchStatus = "watching"
	StatusCompleted   WatchStatus = "completed"
	StatusOnHold      WatchStatus = "on_hold"
	StatusDropped     WatchStatus = "dropped"
	StatusPlanToWatch WatchStatus = "plan_to_watch"
)

// Valid reports whether s is one of the known watch statuses.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanToWatch:
		return true
	}
	return false
}

// List is a named, user-owned collection of anime.
type List struct {
	ID     int64  `json:"id" bson:"_id"`
	UserID int64  `json:"user_id" bson:"user_id"`
	Name   string `json:"name" bson:"name"`
}

// ListEntry is the membership of an anime in a list. (ListID, AnimeID) is unique.
type ListEntry struct {
	ListID  int64       `json:"list_id" bson:"list_id"`
	AnimeID int64       `json:"anime_id" bson:"anime_id"`
	Status  WatchStatus `json:"status" bson:"status"`
}

// ListEntryView is a list entry joined with its catalog data.
type ListEntryView struct {
	ListID      int64       `json:"list_id" bson:"list_id"`
	AnimeID     int64       `json:"anime_id" bson:"anime_id"`
	Title       string      `json:"title" bson:"title"`
	Seasons     int         `json:"seasons" bson:"seasons"`
	Episodes    int         `json:"episodes" bson:"episodes"`
	ReleaseYear int         `json:"release_year" bson:"release_year"`
	Status      WatchStatus `json:"status" bson:"status"`
}
