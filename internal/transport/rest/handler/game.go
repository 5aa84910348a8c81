package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wellplay/internal/cache"
	"wellplay/internal/game"
	"wellplay/internal/model"
	"wellplay/internal/service"
	"wellplay/internal/transport/rest/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// GameHandler exposes the trivia session engine over REST
type GameHandler struct {
	manager     *game.Manager
	authSvc     *service.AuthService
	leaderboard cache.LeaderboardCache
}

// NewGameHandler creates a new game handler
func NewGameHandler(manager *game.Manager, authSvc *service.AuthService, leaderboard cache.LeaderboardCache) *GameHandler {
	return &GameHandler{
		manager:     manager,
		authSvc:     authSvc,
		leaderboard: leaderboard,
	}
}

// CreateGameRequest is the request body for creating a game session
type CreateGameRequest struct {
	Category          string           `json:"category,omitempty"`
	Difficulty        model.Difficulty `json:"difficulty,omitempty"`
	QuestionCount     int              `json:"questionCount"`
	TimePerQuestionMs int64            `json:"timePerQuestionMs"`
}

// Create handles POST /v1/rooms/{roomId}/game
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	hostID := middleware.GetHostID(r.Context())

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionCount <= 0 || req.TimePerQuestionMs <= 0 {
		writeError(w, http.StatusBadRequest, "questionCount and timePerQuestionMs must be positive")
		return
	}

	filter := model.QuestionFilter{Category: req.Category, Difficulty: req.Difficulty}
	snap, err := h.manager.Create(r.Context(), roomID, hostID, filter,
		req.QuestionCount, time.Duration(req.TimePerQuestionMs)*time.Millisecond)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

// JoinRequest is the request body for joining a game
type JoinRequest struct {
	DisplayName string `json:"displayName"`
}

// Join handles POST /v1/rooms/{roomId}/game/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "displayName is required")
		return
	}

	playerID := "p_" + uuid.New().String()[:8]
	if _, err := h.manager.Join(roomID, playerID, req.DisplayName); err != nil {
		writeGameError(w, err)
		return
	}

	token, err := h.authSvc.GeneratePlayerToken(roomID, playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, model.JoinResponse{
		PlayerID: playerID,
		Token:    token,
		RoomID:   roomID,
	})
}

// Start handles POST /v1/rooms/{roomId}/game/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	hostID := middleware.GetHostID(r.Context())

	snap, err := h.manager.Start(roomID, hostID)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	QuestionIndex       int `json:"questionIndex"`
	SelectedOptionIndex int `json:"selectedOptionIndex"`
}

// SubmitAnswer handles POST /v1/rooms/{roomId}/game/answers
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	playerID := middleware.GetPlayerID(r.Context())

	if middleware.GetRoomID(r.Context()) != roomID {
		writeError(w, http.StatusForbidden, "token not valid for this room")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SelectedOptionIndex < 0 {
		writeError(w, http.StatusBadRequest, "selectedOptionIndex must be non-negative")
		return
	}

	answer, err := h.manager.SubmitAnswer(roomID, playerID, req.QuestionIndex, req.SelectedOptionIndex, time.Now())
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// AdvanceRequest names the question the host is advancing from, so an
// advance that raced a timer expiry cannot skip a question.
type AdvanceRequest struct {
	QuestionIndex int `json:"questionIndex"`
}

// Advance handles POST /v1/rooms/{roomId}/game/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	hostID := middleware.GetHostID(r.Context())

	var req AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionIndex < 0 {
		writeError(w, http.StatusBadRequest, "questionIndex must be non-negative")
		return
	}

	snap, err := h.manager.Advance(roomID, hostID, req.QuestionIndex)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// End handles DELETE /v1/rooms/{roomId}/game
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	hostID := middleware.GetHostID(r.Context())

	if err := h.manager.End(roomID, hostID); err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.SessionCancelled)})
}

// Status handles GET /v1/rooms/{roomId}/game
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	snap, err := h.manager.Status(roomID)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Leaderboard handles GET /v1/rooms/{roomId}/game/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	topStr := r.URL.Query().Get("top")
	top := 20
	if topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), roomID, top)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"roomId":  roomID,
		"entries": entries,
	})
}
