package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var (
	corsMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodPut, http.MethodDelete,
	}
	corsHeaders = []string{"Content-Type", "Authorization"}
)

// corsMiddleware allows every origin with credentials. go-chi/cors echoes
// the request Origin; requests without one get "*". The full method and
// header lists go on every response, preflights included, and any OPTIONS
// request ends with an empty 200.
func corsMiddleware(next http.Handler) http.Handler {
	echo := cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   corsMethods,
		AllowedHeaders:   corsHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	})

	inner := echo(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	}))

	methods := strings.Join(corsMethods, ",")
	headers := strings.Join(corsHeaders, ",")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if r.Header.Get("Origin") == "" {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w = &corsListWriter{ResponseWriter: w, methods: methods, headers: headers}
		}
		inner.ServeHTTP(w, r)
	})
}

// corsListWriter restores the full lists go-chi/cors narrows on preflight
// to the requested method and headers.
type corsListWriter struct {
	http.ResponseWriter
	methods string
	headers string
	wrote   bool
}

func (w *corsListWriter) WriteHeader(code int) {
	if !w.wrote {
		w.wrote = true
		h := w.ResponseWriter.Header()
		h.Set("Access-Control-Allow-Methods", w.methods)
		h.Set("Access-Control-Allow-Headers", w.headers)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *corsListWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *corsListWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
