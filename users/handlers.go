package users

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"easymoves/models"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

// Store is the slice of the document store the user directory needs.
type Store interface {
	InsertUser(ctx context.Context, user models.User) (models.InsertResult, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) (models.UpdateResult, error)
	ListAllClasses(ctx context.Context) ([]models.Class, error)
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// RegisterUser saves any user (student, instructor or admin) on signup.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if user.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	result, err := h.Store.InsertUser(r.Context(), user)
	if err != nil {
		log.Printf("RegisterUser insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// GetUsers answers {userExist} for ?email= queries, otherwise the full
// user list.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if email := r.URL.Query().Get("email"); email != "" {
		user, err := h.Store.FindUserByEmail(r.Context(), email)
		if err != nil {
			log.Printf("GetUsers lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up user")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"userExist": user != nil})
		return
	}

	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		log.Printf("GetUsers list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetLevel is the unauthenticated level probe; an unknown email yields a
// null level.
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"level": nil})
		return
	}

	user, err := h.Store.FindUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("GetLevel lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if user == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"level": nil})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"level": user.Role})
}

// GetOwnLevel is the guarded variant: the self-only guard has already
// matched the path email against the token.
func (h *Handler) GetOwnLevel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	user, err := h.Store.FindUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("GetOwnLevel lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"level": user.Role})
}

// ListInstructors returns every user holding the instructor role.
func (h *Handler) ListInstructors(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	instructors, err := h.Store.ListUsersByRole(r.Context(), models.RoleInstructor)
	if err != nil {
		log.Printf("ListInstructors error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to list instructors")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, instructors)
}

// ChangeRole promotes or demotes a user. Unknown roles are rejected
// instead of written through.
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("userId")
	role, ok := models.ParseRole(r.URL.Query().Get("role"))
	if userID == "" || !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "userId and a known role are required")
		return
	}

	result, err := h.Store.UpdateUserRole(r.Context(), userID, role)
	if err != nil {
		log.Printf("ChangeRole update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to change role")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// AdminStats returns the whole directory and catalog for the admin
// dashboard.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		log.Printf("AdminStats users error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	classes, err := h.Store.ListAllClasses(r.Context())
	if err != nil {
		log.Printf("AdminStats classes error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"userResult":  users,
		"classResult": classes,
	})
}
