package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// ReqIDHeader 回應中帶回的 request id header
const ReqIDHeader = "X-Request-Id"

// RequestID 產生（或沿用 client 帶來的）request id，並寫回回應 header，
// 讓呈現層回報問題時可以對上 access log。
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := GetReqId(r); id != "" {
			w.Header().Set(ReqIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

func GetReqId(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}
