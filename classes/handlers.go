package classes

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"easymoves/models"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

type Store interface {
	InsertClass(ctx context.Context, class models.Class) (models.InsertResult, error)
	ListClassesByStatus(ctx context.Context, status models.ClassStatus) ([]models.Class, error)
	ListClassesByInstructor(ctx context.Context, email string) ([]models.Class, error)
	UpdateClassInfo(ctx context.Context, id, className string, price float64) (models.UpdateResult, error)
	SetClassStatus(ctx context.Context, id string, status models.ClassStatus) (models.UpdateResult, error)
	SetClassFeedback(ctx context.Context, id, feedback string) (models.UpdateResult, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// ListApproved returns the public catalog.
func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	classes, err := h.Store.ListClassesByStatus(r.Context(), models.StatusApproved)
	if err != nil {
		log.Printf("ListApproved error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, classes)
}

// ListPopular returns the six approved classes with the most enrollments.
func (h *Handler) ListPopular(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	classes, err := h.Store.ListClassesByStatus(r.Context(), models.StatusApproved)
	if err != nil {
		log.Printf("ListPopular error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, topByEnrollment(classes, 6))
}

// AddClass inserts an instructor's class submission as sent; moderation
// state is the caller's field.
func (h *Handler) AddClass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var class models.Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if class.InstructorEmail == "" || class.ClassName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "className and instructorEmail are required")
		return
	}

	result, err := h.Store.InsertClass(r.Context(), class)
	if err != nil {
		log.Printf("AddClass insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to add class")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// UpdateClass is a partial update touching only className and price. A
// zero matched count means the id did not exist.
func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		ClassName string  `json:"className"`
		Price     float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.Store.UpdateClassInfo(r.Context(), ps.ByName("id"), body.ClassName, body.Price)
	if err != nil {
		log.Printf("UpdateClass update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update class")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// TakeAction approves or denies a class. The query parameter is named
// userId for historical reasons; it carries a class id.
func (h *Handler) TakeAction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	classID := r.URL.Query().Get("userId")
	status, ok := models.ParseClassStatus(r.URL.Query().Get("action"))
	if classID == "" || !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "userId and a known action are required")
		return
	}

	result, err := h.Store.SetClassStatus(r.Context(), classID, status)
	if err != nil {
		log.Printf("TakeAction update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update class status")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// SetFeedback stores the admin's note on a class.
func (h *Handler) SetFeedback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.Store.SetClassFeedback(r.Context(), ps.ByName("id"), body.Feedback)
	if err != nil {
		log.Printf("SetFeedback update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save feedback")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// InstructorStats lists the classes an instructor teaches.
func (h *Handler) InstructorStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	classes, err := h.Store.ListClassesByInstructor(r.Context(), ps.ByName("email"))
	if err != nil {
		log.Printf("InstructorStats error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, classes)
}
