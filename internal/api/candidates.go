package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/gorilla/mux"
)

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	term := strings.TrimSpace(query.Get("q"))
	if err := h.validator.SearchTerm(term, h.policy.MaxSearchLength); err != nil {
		writeError(w, err, h.logger)
		return
	}

	matchOnly := false
	if raw := query.Get("match"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperr.InvalidInput("match must be true or false"), h.logger)
			return
		}
		matchOnly = v
	}

	candidates, err := h.matches.Candidates(r.Context(), h.caller(r), service.CandidateQuery{
		SearchTerm: term,
		MatchOnly:  matchOnly,
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, candidates, h.logger)
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	bookmarked, err := h.bookmarks.Toggle(r.Context(), h.caller(r), mux.Vars(r)["tutorId"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked}, h.logger)
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	tutors, err := h.bookmarks.List(r.Context(), h.caller(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, tutors, h.logger)
}
