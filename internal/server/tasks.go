package server

import (
	"fmt"
	"net/http"

	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/storage"
)

type taskBody struct {
	Name   string           `json:"name"`
	Type   model.TaskType   `json:"type"`
	CallID int64            `json:"call_id"`
	Status model.TaskStatus `json:"status"`
	TagIDs []int64          `json:"tag_ids"`
}

type callTaskBody struct {
	CallID int64            `json:"call_id"`
	Status model.TaskStatus `json:"status"`
	Name   string           `json:"name"`
}

type templateBody struct {
	Name   string         `json:"name"`
	Type   model.TaskType `json:"type"`
	TagIDs []int64        `json:"tag_ids"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.ListTasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// createTask creates an ad-hoc task bound to call_id. A template type is
// accepted and behaves like POST /tasks/template.
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	switch body.Type {
	case model.TaskTypeTemplate:
		out, err := s.repo.CreateTemplateTask(r.Context(), storage.TemplateWrite{Name: body.Name, TagIDs: body.TagIDs})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	case model.TaskTypeAdHoc, "":
		if body.CallID <= 0 {
			s.fail(w, r, fmt.Errorf("%w: call_id is required for ad_hoc tasks", errBadRequest))
			return
		}
		out, err := s.repo.CreateAdHocTask(r.Context(), body.CallID, body.Name, body.Status)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	default:
		s.fail(w, r, fmt.Errorf("%w: %q", model.ErrInvalidTaskType, body.Type))
	}
}

func (s *Server) updateCallTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body callTaskBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.CallID <= 0 {
		s.fail(w, r, fmt.Errorf("%w: call_id is required", errBadRequest))
		return
	}
	out, err := s.repo.UpdateCallTask(r.Context(), id, body.CallID, body.Name, body.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.DeactivateTask(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTemplateTasks(w http.ResponseWriter, r *http.Request) {
	out, err := s.repo.ListTemplateTasks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTemplateTask(w http.ResponseWriter, r *http.Request) {
	var body templateBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Type != "" && body.Type != model.TaskTypeTemplate {
		s.fail(w, r, fmt.Errorf("%w: %q", model.ErrInvalidTaskType, body.Type))
		return
	}
	out, err := s.repo.CreateTemplateTask(r.Context(), storage.TemplateWrite{Name: body.Name, TagIDs: body.TagIDs})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateTemplateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body templateBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.repo.UpdateTemplateTask(r.Context(), id, storage.TemplateWrite{Name: body.Name, TagIDs: body.TagIDs})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTemplateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.DeactivateTemplateTask(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) linkTemplateTask(w http.ResponseWriter, r *http.Request) {
	id, callID, err := templateAndCall(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.repo.LinkTemplateTask(r.Context(), id, callID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) unlinkTemplateTask(w http.ResponseWriter, r *http.Request) {
	id, callID, err := templateAndCall(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.repo.UnlinkTemplateTask(r.Context(), id, callID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func templateAndCall(r *http.Request) (int64, int64, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	callID, err := queryID(r, "call_id")
	if err != nil {
		return 0, 0, err
	}
	return id, callID, nil
}
