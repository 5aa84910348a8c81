package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"wellplay/internal/cache"
	"wellplay/internal/game"
	"wellplay/internal/model"
	"wellplay/internal/service"
	"wellplay/internal/transport/ws"
)

type stubPool struct{ questions []model.Question }

func (s *stubPool) Fetch(_ context.Context, _ model.QuestionFilter, count int) ([]model.Question, error) {
	if len(s.questions) < count {
		return nil, fmt.Errorf("%w: need %d, pool has %d", game.ErrInsufficientQuestions, count, len(s.questions))
	}
	out := make([]model.Question, count)
	copy(out, s.questions[:count])
	return out, nil
}

type stubStats struct{}

func (stubStats) RecordGameResult(context.Context, string, []model.RankingEntry) error { return nil }

type stubBoard struct{}

func (stubBoard) UpdateScore(context.Context, string, string, int) error { return nil }
func (stubBoard) Clear(context.Context, string) error                    { return nil }

type stubLeaderboard struct{ entries []cache.LeaderboardEntry }

func (s *stubLeaderboard) UpdateScore(context.Context, string, string, int) error { return nil }
func (s *stubLeaderboard) GetTop(context.Context, string, int) ([]cache.LeaderboardEntry, error) {
	return s.entries, nil
}
func (s *stubLeaderboard) GetRank(context.Context, string, string) (int64, error) { return -1, nil }
func (s *stubLeaderboard) Clear(context.Context, string) error                    { return nil }

func testServer(t *testing.T, questionCount int) *httptest.Server {
	t.Helper()

	questions := make([]model.Question, questionCount)
	for i := range questions {
		questions[i] = model.Question{
			ID:                 fmt.Sprintf("q%d", i),
			Prompt:             fmt.Sprintf("question %d", i),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: 2,
			BasePoints:         10,
			Category:           "fitness",
			Difficulty:         model.DifficultyEasy,
		}
	}

	manager := game.NewManager(&stubPool{questions: questions}, stubStats{}, stubBoard{})

	c := &Container{
		AuthService: service.NewAuthService(),
		GameManager: manager,
		Leaderboard: &stubLeaderboard{},
		WSHub:       ws.NewHub(),
	}

	srv := httptest.NewServer(NewRouter(c))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func hostLogin(t *testing.T, base string) string {
	t.Helper()
	var resp model.LoginResponse
	code := doJSON(t, "POST", base+"/v1/auth/login", "", model.LoginRequest{
		Username: "admin",
		Password: "password123",
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

func TestLogin(t *testing.T) {
	srv := testServer(t, 0)

	hostLogin(t, srv.URL)

	code := doJSON(t, "POST", srv.URL+"/v1/auth/login", "", model.LoginRequest{
		Username: "admin",
		Password: "wrong",
	}, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", code)
	}
}

func TestHostRoutesRequireAuth(t *testing.T) {
	srv := testServer(t, 3)

	body := map[string]interface{}{"questionCount": 3, "timePerQuestionMs": 30000}
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", "", body, nil); code != http.StatusUnauthorized {
		t.Errorf("unauthenticated create status = %d, want 401", code)
	}
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", "garbage-token", body, nil); code != http.StatusUnauthorized {
		t.Errorf("bad-token create status = %d, want 401", code)
	}
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/answers", "", map[string]int{}, nil); code != http.StatusUnauthorized {
		t.Errorf("unauthenticated answer status = %d, want 401", code)
	}
}

func TestGameLifecycleOverREST(t *testing.T) {
	srv := testServer(t, 2)
	host := hostLogin(t, srv.URL)

	// Create.
	var created model.SessionSnapshot
	code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", host,
		map[string]interface{}{"questionCount": 2, "timePerQuestionMs": 30000}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", code)
	}
	if created.Status != model.SessionWaiting || created.TotalQuestions != 2 {
		t.Fatalf("created snapshot = %+v", created)
	}

	// Duplicate create conflicts.
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", host,
		map[string]interface{}{"questionCount": 2, "timePerQuestionMs": 30000}, nil); code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", code)
	}

	// Join.
	var joined model.JoinResponse
	code = doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/join", "",
		map[string]string{"displayName": "Ana"}, &joined)
	if code != http.StatusOK {
		t.Fatalf("join status = %d, want 200", code)
	}
	if joined.Token == "" || joined.PlayerID == "" || joined.RoomID != "r1" {
		t.Fatalf("join response = %+v", joined)
	}

	// Start.
	var started model.SessionSnapshot
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/start", host, nil, &started); code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", code)
	}
	if started.Status != model.SessionActive || started.CurrentQuestion == nil {
		t.Fatalf("started snapshot = %+v", started)
	}
	if started.CurrentQuestion.Prompt == "" || len(started.CurrentQuestion.Options) != 4 {
		t.Errorf("public question = %+v", started.CurrentQuestion)
	}

	// Answer with the player token.
	var answer model.Answer
	code = doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/answers", joined.Token,
		map[string]int{"questionIndex": 0, "selectedOptionIndex": 2}, &answer)
	if code != http.StatusOK {
		t.Fatalf("answer status = %d, want 200", code)
	}
	if !answer.IsCorrect || answer.PointsAwarded < 1 {
		t.Errorf("answer = %+v, want correct with points", answer)
	}

	// Second answer to the same question conflicts.
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/answers", joined.Token,
		map[string]int{"questionIndex": 0, "selectedOptionIndex": 2}, nil); code != http.StatusConflict {
		t.Errorf("duplicate answer status = %d, want 409", code)
	}

	// Stale question index is unprocessable.
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/answers", joined.Token,
		map[string]int{"questionIndex": 1, "selectedOptionIndex": 2}, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("stale index status = %d, want 422", code)
	}

	// Status is public.
	var status model.SessionSnapshot
	if code := doJSON(t, "GET", srv.URL+"/v1/rooms/r1/game", "", nil, &status); code != http.StatusOK {
		t.Fatalf("status status = %d, want 200", code)
	}
	if status.Scores[joined.PlayerID] != answer.PointsAwarded {
		t.Errorf("score = %d, want %d", status.Scores[joined.PlayerID], answer.PointsAwarded)
	}
	if status.CurrentQuestion != nil && status.CurrentQuestion.Prompt != "" {
		// Make sure the answer key never leaks through the snapshot.
		raw, _ := json.Marshal(status)
		if bytes.Contains(raw, []byte("correctOptionIndex")) {
			t.Error("status response leaks correctOptionIndex")
		}
	}

	// Advance to the last question, then past it to finish.
	var advanced model.SessionSnapshot
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/advance", host,
		map[string]int{"questionIndex": 0}, &advanced); code != http.StatusOK {
		t.Fatalf("advance status = %d, want 200", code)
	}
	if advanced.CurrentQuestionIndex != 1 {
		t.Errorf("index after advance = %d, want 1", advanced.CurrentQuestionIndex)
	}

	// Re-sending the same advance is a no-op, not a second step.
	var repeated model.SessionSnapshot
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/advance", host,
		map[string]int{"questionIndex": 0}, &repeated); code != http.StatusOK {
		t.Fatalf("repeated advance status = %d, want 200", code)
	}
	if repeated.CurrentQuestionIndex != 1 {
		t.Errorf("index after repeated advance = %d, want 1", repeated.CurrentQuestionIndex)
	}

	var finished model.SessionSnapshot
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/advance", host,
		map[string]int{"questionIndex": 1}, &finished); code != http.StatusOK {
		t.Fatalf("final advance status = %d, want 200", code)
	}
	if finished.Status != model.SessionFinished {
		t.Errorf("status after final advance = %s, want finished", finished.Status)
	}

	// Finished sessions are gone.
	if code := doJSON(t, "GET", srv.URL+"/v1/rooms/r1/game", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("status after finish = %d, want 404", code)
	}
}

func TestPlayerTokenIsRoomScoped(t *testing.T) {
	srv := testServer(t, 4)
	host := hostLogin(t, srv.URL)

	for _, room := range []string{"r1", "r2"} {
		if code := doJSON(t, "POST", srv.URL+"/v1/rooms/"+room+"/game", host,
			map[string]interface{}{"questionCount": 2, "timePerQuestionMs": 30000}, nil); code != http.StatusCreated {
			t.Fatalf("create %s status = %d", room, code)
		}
	}

	var joined model.JoinResponse
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game/join", "",
		map[string]string{"displayName": "Ana"}, &joined); code != http.StatusOK {
		t.Fatalf("join status = %d", code)
	}

	// r1 token must not answer in r2.
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r2/game/answers", joined.Token,
		map[string]int{"questionIndex": 0, "selectedOptionIndex": 0}, nil); code != http.StatusForbidden {
		t.Errorf("cross-room answer status = %d, want 403", code)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := testServer(t, 1)
	host := hostLogin(t, srv.URL)

	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", host,
		map[string]interface{}{"questionCount": 0, "timePerQuestionMs": 30000}, nil); code != http.StatusBadRequest {
		t.Errorf("zero questionCount status = %d, want 400", code)
	}

	// Pool only holds one question.
	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", host,
		map[string]interface{}{"questionCount": 5, "timePerQuestionMs": 30000}, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("oversized questionCount status = %d, want 422", code)
	}
}

func TestEndOverREST(t *testing.T) {
	srv := testServer(t, 2)
	host := hostLogin(t, srv.URL)

	if code := doJSON(t, "POST", srv.URL+"/v1/rooms/r1/game", host,
		map[string]interface{}{"questionCount": 2, "timePerQuestionMs": 30000}, nil); code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}

	if code := doJSON(t, "DELETE", srv.URL+"/v1/rooms/r1/game", host, nil, nil); code != http.StatusOK {
		t.Fatalf("end status = %d, want 200", code)
	}
	if code := doJSON(t, "GET", srv.URL+"/v1/rooms/r1/game", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("status after end = %d, want 404", code)
	}
	if code := doJSON(t, "DELETE", srv.URL+"/v1/rooms/r1/game", host, nil, nil); code != http.StatusNotFound {
		t.Errorf("double end status = %d, want 404", code)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv := testServer(t, 0)

	var resp struct {
		RoomID  string                   `json:"roomId"`
		Entries []cache.LeaderboardEntry `json:"entries"`
	}
	if code := doJSON(t, "GET", srv.URL+"/v1/rooms/r1/game/leaderboard", "", nil, &resp); code != http.StatusOK {
		t.Fatalf("leaderboard status = %d, want 200", code)
	}
	if resp.RoomID != "r1" {
		t.Errorf("roomId = %q, want r1", resp.RoomID)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, 0)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}
