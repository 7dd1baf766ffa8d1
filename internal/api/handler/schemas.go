package handler

import "time"

// --- Account ---

type signUpRequest struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"required,min=3,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	Age       int    `json:"age"        validate:"gte=0"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	ID        int64  `json:"id"         validate:"required,gt=0"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
	Age       int    `json:"age"        validate:"gte=0"`
}

type identityResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Catalog ---

type createAnimeRequest struct {
	Title       string `json:"title"        validate:"required,max=200"`
	Seasons     int    `json:"seasons"      validate:"gte=0"`
	Episodes    int    `json:"episodes"     validate:"gte=0"`
	ReleaseYear int    `json:"release_year" validate:"gte=0"`
}

// updateAnimeRequest fields left at their zero value keep the stored value.
type updateAnimeRequest struct {
	ID          int64  `json:"id"           validate:"required,gt=0"`
	Title       string `json:"title"        validate:"max=200"`
	Seasons     int    `json:"seasons"      validate:"gte=0"`
	Episodes    int    `json:"episodes"     validate:"gte=0"`
	ReleaseYear int    `json:"release_year" validate:"gte=0"`
}

// --- Lists ---

type createListRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Name   string `json:"name"    validate:"required,max=100"`
}

type userListsQuery struct {
	UserID int64 `query:"user_id" validate:"required,gt=0"`
}

type addListEntryRequest struct {
	ListID  int64  `json:"list_id"  validate:"required,gt=0"`
	AnimeID int64  `json:"anime_id" validate:"required,gt=0"`
	Status  string `json:"status"   validate:"omitempty,oneof=watching completed on_hold dropped plan_to_watch"`
}

type updateListEntryRequest struct {
	ListID  int64  `json:"list_id"  validate:"required,gt=0"`
	AnimeID int64  `json:"anime_id" validate:"required,gt=0"`
	Status  string `json:"status"   validate:"required,oneof=watching completed on_hold dropped plan_to_watch"`
}

type listEntryKeyQuery struct {
	ListID  int64 `query:"list_id"  validate:"required,gt=0"`
	AnimeID int64 `query:"anime_id" validate:"required,gt=0"`
}
