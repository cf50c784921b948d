package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/study"
)

type cardForm struct {
	Prompt string `validate:"required,max=1000"`
	Answer string `validate:"required,max=1000"`
}

type editorPage struct {
	Cards  []domain.Card
	Form   cardForm
	Errors []string
}

type settingsPage struct {
	ReuseWrongCards bool
}

// do runs fn on the study and reports failures as a plain HTTP error.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(*study.Study)) bool {
	err := s.loop.Do(r.Context(), func(st *study.Study) error {
		fn(st)
		return nil
	})
	if err != nil {
		s.logger.Error("study command failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleGetEditor presents the deck editor over the stored cards.
func (s *Server) handleGetEditor(w http.ResponseWriter, r *http.Request) {
	if !s.do(w, r, func(st *study.Study) { st.OpenEditor() }) {
		return
	}
	s.render(w, http.StatusOK, "edit", editorPage{Cards: s.cards.Load(r.Context())})
}

// handleAddCard stores a new card at the front of the deck.
func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := cardForm{
		Prompt: strings.TrimSpace(r.PostFormValue("prompt")),
		Answer: strings.TrimSpace(r.PostFormValue("answer")),
	}
	if err := s.validate.Struct(form); err != nil {
		s.render(w, http.StatusBadRequest, "edit", editorPage{
			Cards:  s.cards.Load(ctx),
			Form:   form,
			Errors: []string{"A card needs a prompt and an answer of at most 1000 characters."},
		})
		return
	}
	card, err := domain.NewCard(form.Prompt, form.Answer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cards := append([]domain.Card{card}, s.cards.Load(ctx)...)
	if err := s.cards.Save(ctx, cards); err != nil {
		s.logger.Error("failed to save cards", "error", err)
		http.Error(w, "Failed to save card", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/edit", http.StatusSeeOther)
}

// handleDeleteCard removes a stored card by index.
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := cardIndex(r)
	if err != nil {
		http.Error(w, "Invalid card index", http.StatusBadRequest)
		return
	}
	cards := s.cards.Load(ctx)
	if index < 0 || index >= len(cards) {
		http.Error(w, domain.ErrCardIndex.Error(), http.StatusNotFound)
		return
	}

	cards = append(cards[:index], cards[index+1:]...)
	if err := s.cards.Save(ctx, cards); err != nil {
		s.logger.Error("failed to save cards", "error", err)
		http.Error(w, "Failed to delete card", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/edit", http.StatusSeeOther)
}

// handleEditorDone dismisses the editor, which restarts the session.
func (s *Server) handleEditorDone(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	if !s.do(w, r, func(st *study.Study) { st.CloseEditor(ctx) }) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	var page settingsPage
	if !s.do(w, r, func(st *study.Study) {
		st.OpenSettings()
		page.ReuseWrongCards = st.Settings().ReuseWrongCards
	}) {
		return
	}
	s.render(w, http.StatusOK, "settings", page)
}

// handlePostSettings applies the form and dismisses it, which restarts the
// session.
func (s *Server) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	settings := domain.Settings{ReuseWrongCards: r.PostFormValue("reuse_wrong_cards") == "on"}
	if !s.do(w, r, func(st *study.Study) { st.CloseSettings(ctx, settings) }) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
