package http

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const patientIDKey contextKey = "patient_id"

// PatientAuthMiddleware simulates patient authorization (replace with real
// JWT validation). The patient id is taken from the X-Patient-ID header; in
// production it would come from validated token claims.
func PatientAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-Patient-ID")
		patientID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || patientID <= 0 {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing patient authentication")
			return
		}

		ctx := context.WithValue(r.Context(), patientIDKey, patientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func patientIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(patientIDKey).(int64)
	return id
}
