package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/storage"
)

type callBody struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	TagIDs      []int64 `json:"tag_ids"`
}

func (b callBody) write() storage.CallWrite {
	return storage.CallWrite{Name: b.Name, Description: b.Description, TagIDs: b.TagIDs}
}

// listCalls serves calls created within the trailing days window, 7 when
// the query is absent.
func (s *Server) listCalls(w http.ResponseWriter, r *http.Request) {
	days := model.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: days must be an integer", errBadRequest))
			return
		}
		days = n
	}
	if err := model.ValidateDays(days); err != nil {
		s.fail(w, r, err)
		return
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	calls, err := s.repo.ListCalls(r.Context(), since)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calls)
}

func (s *Server) getCall(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	call, err := s.repo.GetCall(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

func (s *Server) createCall(w http.ResponseWriter, r *http.Request) {
	var body callBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	call, err := s.repo.CreateCall(r.Context(), body.write())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, call)
}

func (s *Server) updateCall(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body callBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	call, err := s.repo.UpdateCall(r.Context(), id, body.write())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

func (s *Server) listCallTasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := s.repo.ListCallTasks(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
