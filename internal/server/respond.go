package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/storage"
)

var errBadRequest = errors.New("server: bad request")

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// statusFor maps domain and storage errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotTemplate),
		errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrInvalidDays),
		errors.Is(err, model.ErrInvalidTaskStatus),
		errors.Is(err, model.ErrInvalidTaskType),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeDetail(w, status, "Internal Server Error")
		return
	}
	writeDetail(w, status, detailFor(err))
}

func detailFor(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "Not found"
	case errors.Is(err, storage.ErrNotTemplate):
		return "Task is not a template task"
	case errors.Is(err, storage.ErrConflict):
		return "Already exists"
	case errors.Is(err, model.ErrNameRequired):
		return "Name is required"
	default:
		return err.Error()
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func queryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", errBadRequest, key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, key, raw)
	}
	return id, nil
}
