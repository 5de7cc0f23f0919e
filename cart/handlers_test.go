package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"easymoves/auth"
	"easymoves/globals"
	"easymoves/models"

	"github.com/julienschmidt/httprouter"
)

type fakeStore struct {
	payments []models.Payment
	selected []models.SelectedClass
}

func (f *fakeStore) PaymentCovers(_ context.Context, email, classID string) (bool, error) {
	for _, p := range f.payments {
		if p.Email != email {
			continue
		}
		for _, id := range p.ClassesIDs {
			if id == classID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) HasSelectedClass(_ context.Context, classID, email string) (bool, error) {
	for _, s := range f.selected {
		if s.ClassID == classID && s.SelectedBy == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) InsertSelectedClass(_ context.Context, entry models.SelectedClass) (models.InsertResult, error) {
	f.selected = append(f.selected, entry)
	return models.InsertResult{Acknowledged: true, InsertedID: "inserted"}, nil
}

func (f *fakeStore) FindSelectedClass(_ context.Context, id string) (*models.SelectedClass, error) {
	for i := range f.selected {
		if f.selected[i].ClassID == id {
			return &f.selected[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteSelectedClass(_ context.Context, id string) (models.DeleteResult, error) {
	kept := f.selected[:0]
	var deleted int64
	for _, s := range f.selected {
		if s.ClassID == id {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	f.selected = kept
	return models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (f *fakeStore) ListSelectedByUser(_ context.Context, email string) ([]models.SelectedClass, error) {
	out := []models.SelectedClass{}
	for _, s := range f.selected {
		if s.SelectedBy == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPaymentsByUser(_ context.Context, email string) ([]models.Payment, error) {
	out := []models.Payment{}
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListClassesByIDs(_ context.Context, ids []string) ([]models.Class, error) {
	out := []models.Class{}
	for range ids {
		out = append(out, models.Class{})
	}
	return out, nil
}

func postAddToCart(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/user/addClass", strings.NewReader(body))
	h.AddToCart(rec, r, nil)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return body
}

func TestAddToCartInsertsOnce(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(store)
	payload := `{"classId":"c1","selectedBy":"student@example.com"}`

	first := decodeBody(t, postAddToCart(h, payload))
	if first["insertedId"] != "inserted" {
		t.Errorf("first add should insert, got %v", first)
	}

	second := decodeBody(t, postAddToCart(h, payload))
	if second["isExists"] != true {
		t.Errorf("second add should report isExists, got %v", second)
	}

	if len(store.selected) != 1 {
		t.Errorf("expected exactly one cart entry, got %d", len(store.selected))
	}
}

// A payment covering the class wins over the duplicate check, even when
// no cart entry exists.
func TestAddToCartEnrollmentPrecedence(t *testing.T) {
	store := &fakeStore{
		payments: []models.Payment{{Email: "student@example.com", ClassesIDs: []string{"c1"}}},
	}
	h := NewHandler(store)

	body := decodeBody(t, postAddToCart(h, `{"classId":"c1","selectedBy":"student@example.com"}`))
	if body["isEnrolled"] != true {
		t.Errorf("expected isEnrolled, got %v", body)
	}
	if len(store.selected) != 0 {
		t.Error("no cart entry may be created for an enrolled class")
	}
}

func TestAddToCartRequiresFields(t *testing.T) {
	h := NewHandler(&fakeStore{})
	rec := postAddToCart(h, `{"classId":"c1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func withClaims(r *http.Request, email string) *http.Request {
	ctx := context.WithValue(r.Context(), globals.ClaimsKey, &auth.Claims{Email: email})
	return r.WithContext(ctx)
}

func TestRemoveFromCartChecksOwner(t *testing.T) {
	store := &fakeStore{
		selected: []models.SelectedClass{{ClassID: "c1", SelectedBy: "owner@example.com"}},
	}
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	r := withClaims(httptest.NewRequest(http.MethodDelete, "/selectedClass/c1", nil), "intruder@example.com")
	h.RemoveFromCart(rec, r, httprouter.Params{{Key: "id", Value: "c1"}})

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign cart entry, got %d", rec.Code)
	}
	if len(store.selected) != 1 {
		t.Error("foreign cart entry must not be deleted")
	}
}

func TestRemoveFromCartDeletesOwnEntry(t *testing.T) {
	store := &fakeStore{
		selected: []models.SelectedClass{{ClassID: "c1", SelectedBy: "owner@example.com"}},
	}
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	r := withClaims(httptest.NewRequest(http.MethodDelete, "/selectedClass/c1", nil), "owner@example.com")
	h.RemoveFromCart(rec, r, httprouter.Params{{Key: "id", Value: "c1"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["deletedCount"] != float64(1) {
		t.Errorf("expected deletedCount 1, got %v", body)
	}
	if len(store.selected) != 0 {
		t.Error("entry should be gone")
	}
}

func TestRemoveFromCartUnknownIDIsZeroCount(t *testing.T) {
	h := NewHandler(&fakeStore{})

	rec := httptest.NewRecorder()
	r := withClaims(httptest.NewRequest(http.MethodDelete, "/selectedClass/nope", nil), "owner@example.com")
	h.RemoveFromCart(rec, r, httprouter.Params{{Key: "id", Value: "nope"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["deletedCount"] != float64(0) {
		t.Errorf("expected zero-count delete, got %v", body)
	}
}
