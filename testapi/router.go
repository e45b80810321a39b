package testapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"encore.dev/beta/errs"
	"encore.dev/rlog"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"encore.app/idempotency"
	"encore.app/idempotency/middleware"
)

const basePath = "/v6/TestingIdempotentAPI"

const getItemRoute = "GetItem"

var routes = middleware.Routes{
	getItemRoute: basePath + "/items/{id}",
}

// maxDelay caps delaySeconds so a caller cannot park a request forever.
const maxDelay = 30 * time.Second

// TestResponse is returned by the test endpoints. ID is fresh on every
// execution, so a replay is recognizable by an unchanged ID.
type TestResponse struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Item is the resource created through the CreatedAtRoute endpoint.
type Item struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

func newRouter(coord *idempotency.Coordinator) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.New(coord, middleware.WithRoutes(routes)))

	r.Route(basePath, func(r chi.Router) {
		r.Get("/test", handleTest)
		r.Post("/test", handleTest)
		r.Patch("/test", handleTest)
		r.Post("/customNotAcceptable406", handleNotAcceptable)
		r.Post("/createdAtRoute", handleCreatedAtRoute)
		r.Get("/items/{id}", handleGetItem)
		r.Post("/panic", handlePanic)
	})
	return r
}

func handleTest(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(r)
	if err != nil {
		errs.HTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TestResponse{
		ID:        uuid.NewString(),
		Method:    r.Method,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	})
}

// handleNotAcceptable waits delaySeconds and answers 406 with fresh content.
func handleNotAcceptable(w http.ResponseWriter, r *http.Request) {
	delay, err := parseDelay(r.URL.Query().Get("delaySeconds"))
	if err != nil {
		errs.HTTPError(w, err)
		return
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-r.Context().Done():
		rlog.Info("request abandoned while delaying", "delay", delay)
		return
	case <-timer.C:
	}

	writeJSON(w, http.StatusNotAcceptable, TestResponse{
		ID:        uuid.NewString(),
		Method:    r.Method,
		CreatedAt: time.Now().UTC(),
	})
}

func handleCreatedAtRoute(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(r)
	if err != nil {
		errs.HTTPError(w, err)
		return
	}
	item := Item{ID: uuid.NewString(), Data: payload}
	if err := routes.CreatedAtRoute(w, getItemRoute, map[string]string{"id": item.ID}, item); err != nil {
		rlog.Error("failed to write created at route response", "error", err)
	}
}

func handleGetItem(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Item{ID: chi.URLParam(r, "id")})
}

func handlePanic(http.ResponseWriter, *http.Request) {
	panic("testapi: panic endpoint called")
}

func readPayload(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errs.WrapCode(err, errs.InvalidArgument, "failed to read request body")
	}
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "request body must be JSON"}
	}
	return json.RawMessage(body), nil
}

func parseDelay(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, &errs.Error{Code: errs.InvalidArgument, Message: fmt.Sprintf("invalid delaySeconds %q", raw)}
	}
	delay := time.Duration(seconds) * time.Second
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rlog.Error("failed to encode response", "error", err)
	}
}
