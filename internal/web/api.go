package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gesture"
	"github.com/conorfennell/flashdeck/internal/lifecycle"
	"github.com/conorfennell/flashdeck/internal/loop"
	"github.com/conorfennell/flashdeck/internal/study"
)

// errorResponse carries the failure and the view after it, so the page can
// redraw either way.
type errorResponse struct {
	Error string      `json:"error"`
	View  *study.View `json:"view,omitempty"`
}

type answerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// apply runs fn on the study and returns the view that follows it, along
// with any haptics fn triggered.
func (s *Server) apply(ctx context.Context, fn func(*study.Study) error) (*study.View, error) {
	var view *study.View
	err := s.loop.Do(ctx, func(st *study.Study) error {
		fnErr := fn(st)
		v := st.View()
		if s.haptics != nil {
			v.Haptics = s.haptics.Drain()
		}
		view = &v
		return fnErr
	})
	return view, err
}

// respond writes the view, or the error mapped to a status code.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, view *study.View, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, view)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCardIndex):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInputLocked), errors.Is(err, domain.ErrNoAlert):
		status = http.StatusConflict
	case errors.Is(err, loop.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), View: view})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cardIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := s.apply(r.Context(), func(*study.Study) error { return nil })
	s.respond(w, r, view, err)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	index, err := cardIndex(r)
	if err != nil {
		s.badRequest(w, "invalid card index")
		return
	}
	var offset gesture.Offset
	if err := json.NewDecoder(r.Body).Decode(&offset); err != nil {
		s.badRequest(w, "invalid drag offset")
		return
	}

	view, err := s.apply(r.Context(), func(st *study.Study) error {
		return st.Drag(index, offset)
	})
	s.respond(w, r, view, err)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	index, err := cardIndex(r)
	if err != nil {
		s.badRequest(w, "invalid card index")
		return
	}
	view, err := s.apply(r.Context(), func(st *study.Study) error {
		_, err := st.Release(index)
		return err
	})
	s.respond(w, r, view, err)
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	index, err := cardIndex(r)
	if err != nil {
		s.badRequest(w, "invalid card index")
		return
	}
	view, err := s.apply(r.Context(), func(st *study.Study) error {
		return st.Tap(index)
	})
	s.respond(w, r, view, err)
}

// handleAnswer backs the Wrong and Correct buttons.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid answer")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.badRequest(w, "answer needs a correct field")
		return
	}
	view, err := s.apply(r.Context(), func(st *study.Study) error {
		return st.Answer(*req.Correct)
	})
	s.respond(w, r, view, err)
}

// handleRestart backs the "Start Again" button. Once accepted, the reset
// runs to completion even if the client goes away.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	view, err := s.apply(r.Context(), func(st *study.Study) error {
		st.StartAgain(ctx)
		return nil
	})
	s.respond(w, r, view, err)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	view, err := s.apply(r.Context(), func(st *study.Study) error {
		return st.DismissAlert(ctx)
	})
	s.respond(w, r, view, err)
}

// handleLifecycle relays page visibility changes to lifecycle subscribers.
func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	event, err := lifecycle.ParseEvent(chi.URLParam(r, "event"))
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.lifecycle.Publish(r.Context(), event); err != nil {
		s.respond(w, r, nil, err)
		return
	}
	s.handleState(w, r)
}
