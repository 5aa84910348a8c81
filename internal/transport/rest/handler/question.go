package handler

import (
	"encoding/json"
	"net/http"

	"wellplay/internal/model"
	"wellplay/internal/repository"
	"wellplay/internal/service"

	"github.com/gorilla/mux"
)

// QuestionHandler handles question pool management endpoints
type QuestionHandler struct {
	questionRepo repository.QuestionRepo
	statsSvc     *service.StatsService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionRepo repository.QuestionRepo, statsSvc *service.StatsService) *QuestionHandler {
	return &QuestionHandler{
		questionRepo: questionRepo,
		statsSvc:     statsSvc,
	}
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var question model.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if question.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	question.TimesUsed = 0
	if err := h.questionRepo.Create(r.Context(), &question); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.QuestionFilter{
		Category:   r.URL.Query().Get("category"),
		Difficulty: model.Difficulty(r.URL.Query().Get("difficulty")),
	}

	questions, err := h.questionRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Delete handles DELETE /v1/questions/{questionId}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["questionId"]

	if err := h.questionRepo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// PlayerStats handles GET /v1/players/{playerId}/stats
func (h *QuestionHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]

	stats, err := h.statsSvc.GetPlayerStats(r.Context(), playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "no stats for player")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
