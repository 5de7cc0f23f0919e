package classes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"easymoves/models"
)

type fakeStore struct {
	classes    []models.Class
	statusSets map[string]models.ClassStatus
}

func newFakeStore(classes ...models.Class) *fakeStore {
	return &fakeStore{classes: classes, statusSets: make(map[string]models.ClassStatus)}
}

func (f *fakeStore) InsertClass(_ context.Context, class models.Class) (models.InsertResult, error) {
	f.classes = append(f.classes, class)
	return models.InsertResult{Acknowledged: true, InsertedID: "inserted"}, nil
}

func (f *fakeStore) ListClassesByStatus(_ context.Context, status models.ClassStatus) ([]models.Class, error) {
	out := []models.Class{}
	for _, c := range f.classes {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListClassesByInstructor(_ context.Context, email string) ([]models.Class, error) {
	out := []models.Class{}
	for _, c := range f.classes {
		if c.InstructorEmail == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateClassInfo(_ context.Context, id, className string, price float64) (models.UpdateResult, error) {
	return models.UpdateResult{Acknowledged: true}, nil
}

func (f *fakeStore) SetClassStatus(_ context.Context, id string, status models.ClassStatus) (models.UpdateResult, error) {
	f.statusSets[id] = status
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeStore) SetClassFeedback(_ context.Context, id, feedback string) (models.UpdateResult, error) {
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func approved(name string, enrolled int) models.Class {
	return models.Class{ClassName: name, Status: models.StatusApproved, TotalEnrolled: enrolled}
}

func TestTopByEnrollment(t *testing.T) {
	classes := []models.Class{}
	for _, n := range []int{10, 5, 20, 1, 7, 3, 9} {
		classes = append(classes, approved("c", n))
	}

	top := topByEnrollment(classes, 6)

	if len(top) != 6 {
		t.Fatalf("expected 6 classes, got %d", len(top))
	}
	want := []int{20, 10, 9, 7, 5, 3}
	for i, c := range top {
		if c.TotalEnrolled != want[i] {
			t.Errorf("rank %d: expected %d enrolled, got %d", i, want[i], c.TotalEnrolled)
		}
	}
}

func TestTopByEnrollmentShortList(t *testing.T) {
	top := topByEnrollment([]models.Class{approved("a", 2), approved("b", 5)}, 6)
	if len(top) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(top))
	}
	if top[0].TotalEnrolled != 5 {
		t.Errorf("expected most enrolled first, got %d", top[0].TotalEnrolled)
	}
}

func TestListPopularFiltersUnapproved(t *testing.T) {
	store := newFakeStore(
		approved("yoga", 30),
		models.Class{ClassName: "hidden", Status: models.StatusPending, TotalEnrolled: 99},
	)
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	h.ListPopular(rec, httptest.NewRequest(http.MethodGet, "/classes/popular", nil), nil)

	var got []models.Class
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(got) != 1 || got[0].ClassName != "yoga" {
		t.Errorf("expected only approved classes, got %+v", got)
	}
}

func TestTakeActionRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/class/takeAction?userId=abc&action=published", nil)
	h.TakeAction(rec, r, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown action, got %d", rec.Code)
	}
	if len(store.statusSets) != 0 {
		t.Error("store must not be written for an unknown action")
	}
}

func TestTakeActionApproves(t *testing.T) {
	store := newFakeStore()
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/class/takeAction?userId=abc&action=approved", nil)
	h.TakeAction(rec, r, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.statusSets["abc"] != models.StatusApproved {
		t.Errorf("expected class abc approved, got %q", store.statusSets["abc"])
	}
}

func TestAddClassRequiresFields(t *testing.T) {
	h := NewHandler(newFakeStore())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/instructor/addClass", strings.NewReader(`{"price": 10}`))
	h.AddClass(rec, r, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
