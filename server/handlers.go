package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rushteam/prodrec/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorDTO{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"products": s.Catalog.Size(),
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = DefaultUser
	}

	prefs, err := s.Prefs.Load(r.Context(), user)
	if err != nil {
		s.Logger.Error().Err(err).Str("user", user).Msg("load preferences")
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, preferencesDTO{User: user, Preferences: prefs})
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req setPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.User == "" {
		req.User = DefaultUser
	}

	prefs, err := s.Prefs.Save(r.Context(), req.User, &req.PreferencePatch)
	if err != nil {
		s.Logger.Error().Err(err).Str("user", req.User).Msg("save preferences")
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	writeJSON(w, http.StatusOK, preferencesDTO{User: req.User, Preferences: prefs})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	user := q.Get("user")
	if user == "" {
		user = DefaultUser
	}

	k := s.DefaultK
	if raw := q.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = parsed
	}
	if maxK := s.maxK(); k <= 0 || k > maxK {
		k = maxK
	}

	policyName := q.Get("policy")
	policy, err := s.Policies.Get(policyName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown policy: "+policyName)
		return
	}

	prefs, err := s.Prefs.Load(r.Context(), user)
	if err != nil {
		s.Logger.Error().Err(err).Str("user", user).Msg("load preferences")
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	rctx := &core.RecommendContext{
		UserID: user,
		Scene:  "recommendations",
		Prefs:  prefs,
		Params: map[string]any{"k": k},
	}

	items, err := policy.Run(r.Context(), rctx, nil)
	if err != nil {
		s.Logger.Error().
			Err(err).
			Str("user", user).
			Str("policy", policy.Name).
			Msg("run policy")
		writeError(w, http.StatusInternalServerError, "recommendation failed")
		return
	}

	withBlend := policy.Name == "hybrid"
	writeJSON(w, http.StatusOK, toDTOs(items, withBlend))
}
