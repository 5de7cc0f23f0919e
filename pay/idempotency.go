package pay

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"easymoves/middleware"
	"easymoves/models"
	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

// IdempotencyStore persists one record per Idempotency-Key, including
// the captured response once the guarded handler has answered.
type IdempotencyStore interface {
	CreateIdempotencyRecord(ctx context.Context, rec models.IdempotencyRecord) (created bool, err error)
	FindIdempotencyRecord(ctx context.Context, key string) (*models.IdempotencyRecord, error)
	SaveIdempotencyResponse(ctx context.Context, key string, response map[string]interface{}) error
}

// storedStatus handles the numeric types the store round-trips ints as.
func storedStatus(raw interface{}) int {
	switch v := raw.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return http.StatusOK
	}
}

func computeRequestHash(r *http.Request, bodyBytes []byte, email string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + email + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// captureResponseWriter records status and body while writing through.
type captureResponseWriter struct {
	w           http.ResponseWriter
	statusCode  int
	buf         bytes.Buffer
	wroteHeader bool
}

func newCaptureResponseWriter(w http.ResponseWriter) *captureResponseWriter {
	return &captureResponseWriter{w: w, statusCode: http.StatusOK}
}

func (c *captureResponseWriter) Header() http.Header {
	return c.w.Header()
}

func (c *captureResponseWriter) WriteHeader(statusCode int) {
	if !c.wroteHeader {
		c.statusCode = statusCode
		c.w.WriteHeader(statusCode)
		c.wroteHeader = true
	}
}

func (c *captureResponseWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.w.Write(b)
}

// Idempotent replays settlements when the client resends the same
// Idempotency-Key. Behavior:
//   - no header: pass-through.
//   - first use of a key: run the handler, capture and store the response.
//   - key reuse with the same request hash: return the stored response,
//     or let an in-flight request run again.
//   - key reuse with a different request hash: 409 Conflict.
func Idempotent(store IdempotencyStore) middleware.Wrapper {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next(w, r, ps)
				return
			}

			email := ""
			if claims := middleware.ClaimsFromRequest(r); claims != nil {
				email = claims.Email
			}

			// Bound the body at 1 MB; settlement payloads are tiny.
			bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			reqHash := computeRequestHash(r, bodyBytes, email)
			now := time.Now()
			rec := models.IdempotencyRecord{
				Key:         key,
				Method:      r.Method,
				Path:        r.URL.Path,
				Email:       email,
				RequestHash: reqHash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(24 * time.Hour),
			}

			ctx := r.Context()
			created, err := store.CreateIdempotencyRecord(ctx, rec)
			if err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "idempotency lookup error")
				return
			}

			if created {
				crw := newCaptureResponseWriter(w)
				next(crw, r, ps)

				var parsed interface{}
				if err := json.Unmarshal(crw.buf.Bytes(), &parsed); err != nil {
					parsed = crw.buf.String()
				}
				_ = store.SaveIdempotencyResponse(ctx, key, map[string]interface{}{
					"status": crw.statusCode,
					"body":   parsed,
				})
				return
			}

			existing, err := store.FindIdempotencyRecord(ctx, key)
			if err != nil || existing == nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "idempotency lookup error")
				return
			}

			if existing.RequestHash != reqHash {
				utils.RespondWithError(w, http.StatusConflict, "idempotency-key conflict")
				return
			}

			if existing.Response != nil {
				utils.RespondWithJSON(w, storedStatus(existing.Response["status"]), existing.Response["body"])
				return
			}

			// In-flight original request, run the handler again.
			next(w, r, ps)
		}
	}
}
