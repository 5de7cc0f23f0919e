package pay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"

	"easymoves/middleware"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// receiptPayload builds the QR content: payment id, payer and amount,
// signed so the front desk can spot a doctored receipt.
func (h *Handler) receiptPayload(paymentID, email string, amount float64) string {
	data := fmt.Sprintf("%s|%s|%.2f", paymentID, email, amount)
	mac := hmac.New(sha256.New, h.receiptSecret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return data + "|" + sig
}

// PaymentReceipt renders a PDF receipt for one of the caller's own
// payments.
func (h *Handler) PaymentReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	payment, err := h.Store.FindPaymentByID(r.Context(), id)
	if err != nil {
		log.Printf("PaymentReceipt lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to look up payment")
		return
	}
	if payment == nil {
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	if claims == nil || claims.Email != payment.Email {
		utils.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}

	qrPNG, err := qrcode.Encode(h.receiptPayload(id, payment.Email, payment.Amount), qrcode.Medium, 256)
	if err != nil {
		log.Printf("PaymentReceipt QR error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate receipt")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "EasyMoves Payment Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Payment ID: %s", id))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Paid by: %s", payment.Email))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: $%.2f", payment.Amount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", payment.Date.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	if payment.TransactionID != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Transaction: %s", payment.TransactionID))
		pdf.Ln(8)
	}
	if len(payment.ClassesNames) > 0 {
		pdf.Cell(0, 10, fmt.Sprintf("Classes: %s", strings.Join(payment.ClassesNames, ", ")))
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("PaymentReceipt PDF error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
