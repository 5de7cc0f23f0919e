package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"easymoves/middleware"
	"easymoves/models"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

type Store interface {
	PaymentCovers(ctx context.Context, email, classID string) (bool, error)
	HasSelectedClass(ctx context.Context, classID, email string) (bool, error)
	InsertSelectedClass(ctx context.Context, entry models.SelectedClass) (models.InsertResult, error)
	FindSelectedClass(ctx context.Context, id string) (*models.SelectedClass, error)
	DeleteSelectedClass(ctx context.Context, id string) (models.DeleteResult, error)
	ListSelectedByUser(ctx context.Context, email string) ([]models.SelectedClass, error)
	ListPaymentsByUser(ctx context.Context, email string) ([]models.Payment, error)
	ListClassesByIDs(ctx context.Context, ids []string) ([]models.Class, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// AddToCart selects a class for a student. A class already paid for wins
// over a duplicate cart entry: the enrollment check runs first.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry models.SelectedClass
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if entry.ClassID == "" || entry.SelectedBy == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "classId and selectedBy are required")
		return
	}

	enrolled, err := h.Store.PaymentCovers(r.Context(), entry.SelectedBy, entry.ClassID)
	if err != nil {
		log.Printf("AddToCart enrollment check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check enrollment")
		return
	}
	if enrolled {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isEnrolled": true})
		return
	}

	exists, err := h.Store.HasSelectedClass(r.Context(), entry.ClassID, entry.SelectedBy)
	if err != nil {
		log.Printf("AddToCart duplicate check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to check cart")
		return
	}
	if exists {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isExists": true})
		return
	}

	result, err := h.Store.InsertSelectedClass(r.Context(), entry)
	if err != nil {
		log.Printf("AddToCart insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to add class to cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// RemoveFromCart deletes one of the caller's own cart entries. An
// unknown id is a zero-count delete, someone else's entry is forbidden.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	entry, err := h.Store.FindSelectedClass(r.Context(), id)
	if err != nil {
		log.Printf("RemoveFromCart lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up cart entry")
		return
	}
	if entry == nil {
		utils.RespondWithJSON(w, http.StatusOK, models.DeleteResult{Acknowledged: true})
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	if claims == nil || claims.Email != entry.SelectedBy {
		utils.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}

	result, err := h.Store.DeleteSelectedClass(r.Context(), id)
	if err != nil {
		log.Printf("RemoveFromCart delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart entry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// UserStats aggregates a student's cart, enrolled classes and payment
// history in one response.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	selected, err := h.Store.ListSelectedByUser(r.Context(), email)
	if err != nil {
		log.Printf("UserStats cart error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	payments, err := h.Store.ListPaymentsByUser(r.Context(), email)
	if err != nil {
		log.Printf("UserStats payments error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	enrolled, err := h.Store.ListClassesByIDs(r.Context(), paidClassIDs(payments))
	if err != nil {
		log.Printf("UserStats classes error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"selectedClassResult": selected,
		"enrolledClassResult": enrolled,
		"usersAllPayment":     payments,
	})
}

// paidClassIDs flattens the class ids of all payments, deduplicated.
func paidClassIDs(payments []models.Payment) []string {
	seen := make(map[string]bool)
	ids := []string{}
	for _, p := range payments {
		for _, id := range p.ClassesIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
