package domain

import "testing"

func TestAnime_Merge_OnlyTitle(t *testing.T) {
	stored := Anime{ID: 7, Title: "Mushishi", Seasons: 2, Episodes: 46, ReleaseYear: 2005}

	stored.Merge(Anime{ID: 7, Title: "Mushi-Shi"})

	want := Anime{ID: 7, Title: "Mushi-Shi", Seasons: 2, Episodes: 46, ReleaseYear: 2005}
	if stored != want {
		t.Fatalf("expected %+v, got %+v", want, stored)
	}
}

func TestAnime_Merge_NumericFields(t *testing.T) {
	stored := Anime{ID: 1, Title: "Frieren", Seasons: 1, Episodes: 28, ReleaseYear: 2023}

	stored.Merge(Anime{Seasons: 2, Episodes: -3})

	if stored.Seasons != 2 {
		t.Errorf("expected seasons 2, got %d", stored.Seasons)
	}
	if stored.Episodes != 28 {
		t.Errorf("non-positive episodes must not overwrite, got %d", stored.Episodes)
	}
	if stored.Title != "Frieren" || stored.ReleaseYear != 2023 {
		t.Errorf("untouched fields changed: %+v", stored)
	}
}

func TestUser_Merge_IgnoresEmpty(t *testing.T) {
	stored := User{ID: 3, Email: "a@b.com", FirstName: "Aki", LastName: "Hayakawa", Age: 22}

	stored.Merge(User{Email: "other@b.com", LastName: "H."})

	if stored.Email != "a@b.com" {
		t.Errorf("email must not be merged, got %q", stored.Email)
	}
	if stored.FirstName != "Aki" || stored.LastName != "H." || stored.Age != 22 {
		t.Errorf("unexpected merge result: %+v", stored)
	}
}

func TestFail_NeverEmptyMessage(t *testing.T) {
	if r := Fail(nil, ""); !r.IsError || r.Message == "" {
		t.Fatalf("expected non-empty error envelope, got %+v", r)
	}
	if r := Fail(ErrNotFound, ""); r.Message != ErrNotFound.Error() {
		t.Fatalf("expected message from error, got %q", r.Message)
	}
}

func TestWatchStatus_Valid(t *testing.T) {
	if !StatusPlanToWatch.Valid() {
		t.Error("plan_to_watch should be valid")
	}
	if WatchStatus("rewatching").Valid() {
		t.Error("unknown status should be invalid")
	}
}
