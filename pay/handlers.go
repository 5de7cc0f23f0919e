package pay

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"easymoves/models"
	"easymoves/stripe"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

type Store interface {
	InsertPayment(ctx context.Context, payment models.Payment) (models.InsertResult, error)
	DeleteSelectedClasses(ctx context.Context, ids []string) (models.DeleteResult, error)
	AdjustClassCounters(ctx context.Context, classIDs []string) (models.UpdateResult, error)
	FindPaymentByID(ctx context.Context, id string) (*models.Payment, error)
}

// Gateway creates payment intents with the external processor.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (stripe.PaymentIntent, error)
}

type Handler struct {
	Store   Store
	Gateway Gateway

	// receiptSecret signs the QR payload on PDF receipts.
	receiptSecret []byte
}

func NewHandler(store Store, gateway Gateway, receiptSecret []byte) *Handler {
	return &Handler{Store: store, Gateway: gateway, receiptSecret: receiptSecret}
}

// CreatePaymentIntent opens a card intent for price dollars, charged in
// cents, and hands the client secret back for the frontend to confirm.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "a positive price is required")
		return
	}

	amount := int64(math.Round(body.Price * 100))
	intent, err := h.Gateway.CreatePaymentIntent(r.Context(), amount, "usd")
	if err != nil {
		log.Printf("CreatePaymentIntent gateway error: %v", err)
		utils.RespondWithError(w, http.StatusBadGateway, "payment gateway error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"clientSecret": intent.ClientSecret})
}

// SettlePayment converts cart entries into a completed payment: save the
// payment record, drop the consumed cart entries, then take a seat and
// add an enrollment on every paid class. The three writes are separate
// store calls with no cross-call transaction; a failure mid-sequence is
// reported and nothing is rolled back.
func (h *Handler) SettlePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if payment.Email == "" || len(payment.ClassesIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "email and classesIds are required")
		return
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}

	saved, err := h.Store.InsertPayment(r.Context(), payment)
	if err != nil {
		log.Printf("SettlePayment insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save payment")
		return
	}

	deleted, err := h.Store.DeleteSelectedClasses(r.Context(), payment.SelectedClassIDs)
	if err != nil {
		log.Printf("SettlePayment cart cleanup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart entries")
		return
	}

	updated, err := h.Store.AdjustClassCounters(r.Context(), payment.ClassesIDs)
	if err != nil {
		log.Printf("SettlePayment counter update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update class seats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"savePaymentInfo":          saved,
		"deletedFromSelectedClass": deleted,
		"updatedClassInfo":         updated,
	})
}
