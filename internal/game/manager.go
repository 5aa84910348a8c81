package game

import (
	"context"
	"log"
	"sync"
	"time"

	"wellplay/internal/model"

	"github.com/google/uuid"
)

// Manager owns the registry of live sessions, one per room. Every mutating
// operation on a room runs under that room's mutex, so manual advances, timer
// fires and answer submissions for the same room never interleave. Operations
// on different rooms run in parallel.
//
// Broadcasts, leaderboard mirroring and stat persistence are side effects of
// a completed state transition: they run after the room mutex is released and
// their failures never flow back into game state.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*roomEntry

	pool        QuestionPool
	stats       StatsSink
	board       ScoreBoard
	clock       *Clock
	broadcaster Broadcaster
}

type roomEntry struct {
	mu sync.Mutex
	// session is nil once the room's session reached a terminal status and
	// was removed from the registry.
	session *model.GameSession
}

// NewManager creates a manager wired to its collaborators.
func NewManager(pool QuestionPool, stats StatsSink, board ScoreBoard) *Manager {
	return &Manager{
		rooms: make(map[string]*roomEntry),
		pool:  pool,
		stats: stats,
		board: board,
		clock: NewClock(),
	}
}

// SetBroadcaster sets the broadcaster for game events
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// Create builds a new waiting session for the room from a fresh question
// snapshot. Fails with ErrSessionExists if the room already has one, or
// ErrInsufficientQuestions if the pool cannot satisfy the request.
func (m *Manager) Create(ctx context.Context, roomID, creatorID string, filter model.QuestionFilter, questionCount int, timePerQuestion time.Duration) (*model.SessionSnapshot, error) {
	if questionCount <= 0 || timePerQuestion <= 0 {
		return nil, ErrInvalidState
	}

	// Fast-fail before hitting the pool; checked again on insert.
	m.mu.Lock()
	_, exists := m.rooms[roomID]
	m.mu.Unlock()
	if exists {
		return nil, ErrSessionExists
	}

	questions, err := m.pool.Fetch(ctx, filter, questionCount)
	if err != nil {
		return nil, err
	}

	s := newSession("gs_"+uuid.New().String()[:8], roomID, creatorID, questions, timePerQuestion)

	m.mu.Lock()
	if _, exists := m.rooms[roomID]; exists {
		m.mu.Unlock()
		return nil, ErrSessionExists
	}
	entry := &roomEntry{session: s}
	m.rooms[roomID] = entry
	m.mu.Unlock()

	entry.mu.Lock()
	snap := snapshot(s)
	entry.mu.Unlock()

	m.publish(roomID, EventSessionCreated, SessionCreatedPayload{
		SessionID:         s.ID,
		RoomID:            roomID,
		QuestionCount:     questionCount,
		TimePerQuestionMs: timePerQuestion.Milliseconds(),
	})

	return snap, nil
}

// Join adds a player to a waiting session with score zero.
func (m *Manager) Join(roomID, playerID, displayName string) (*model.SessionSnapshot, error) {
	entry, err := m.entry(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil {
		entry.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.Status != model.SessionWaiting {
		entry.mu.Unlock()
		return nil, ErrInvalidState
	}
	if _, ok := s.Players[playerID]; ok {
		entry.mu.Unlock()
		return nil, ErrAlreadyJoined
	}

	s.Players[playerID] = &model.Player{
		ID:          playerID,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
		Answers:     make(map[int]model.Answer),
	}
	s.JoinOrder = append(s.JoinOrder, playerID)
	playerCount := len(s.Players)
	snap := snapshot(s)
	entry.mu.Unlock()

	m.publish(roomID, EventPlayerJoined, PlayerJoinedPayload{
		PlayerID:    playerID,
		DisplayName: displayName,
		PlayerCount: playerCount,
	})

	return snap, nil
}

// Start moves a waiting session to active and opens the deadline for the
// first question. Creator only; needs at least one player.
func (m *Manager) Start(roomID, callerID string) (*model.SessionSnapshot, error) {
	entry, err := m.entry(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil {
		entry.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.CreatedBy != callerID {
		entry.mu.Unlock()
		return nil, ErrForbidden
	}
	if s.Status != model.SessionWaiting || len(s.Players) == 0 {
		entry.mu.Unlock()
		return nil, ErrInvalidState
	}

	s.Status = model.SessionActive
	s.CurrentQuestionIndex = 0
	m.openDeadline(s)
	payload := m.questionPayload(s)
	snap := snapshot(s)
	entry.mu.Unlock()

	m.publish(roomID, EventGameStarted, payload)
	return snap, nil
}

// SubmitAnswer records an answer for the current question. now is the
// submission instant as observed by the caller's transport; answers at or
// after the deadline are rejected. Rejections leave session state untouched.
func (m *Manager) SubmitAnswer(roomID, playerID string, questionIndex, selectedOptionIndex int, now time.Time) (*model.Answer, error) {
	entry, err := m.entry(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil {
		entry.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.Status != model.SessionActive {
		entry.mu.Unlock()
		return nil, ErrInvalidState
	}
	p, ok := s.Players[playerID]
	if !ok {
		entry.mu.Unlock()
		return nil, ErrUnknownPlayer
	}
	if questionIndex != s.CurrentQuestionIndex {
		entry.mu.Unlock()
		return nil, ErrWrongQuestion
	}
	if _, ok := p.Answers[questionIndex]; ok {
		entry.mu.Unlock()
		return nil, ErrAlreadyAnswered
	}
	if !now.Before(s.CurrentDeadline) {
		entry.mu.Unlock()
		return nil, ErrDeadlineExpired
	}

	q := s.Questions[questionIndex]
	elapsed := now.Sub(s.CurrentDeadline.Add(-s.TimePerQuestion))
	isCorrect := selectedOptionIndex == q.CorrectOptionIndex
	points := Score(q, s.TimePerQuestion, elapsed, isCorrect)

	answer := model.Answer{
		SelectedOptionIndex: selectedOptionIndex,
		IsCorrect:           isCorrect,
		PointsAwarded:       points,
		ElapsedMs:           elapsed.Milliseconds(),
		AnsweredAt:          now,
	}
	p.Answers[questionIndex] = answer
	p.Score += points
	totalScore := p.Score
	answered := answeredCount(s, questionIndex)
	entry.mu.Unlock()

	m.publish(roomID, EventAnswerAccepted, AnswerAcceptedPayload{
		PlayerID:      playerID,
		QuestionIndex: questionIndex,
		AnsweredCount: answered,
	})
	if m.broadcaster != nil {
		m.broadcaster.BroadcastToPlayer(roomID, playerID, EventAnswerResult, AnswerResultPayload{
			QuestionIndex: questionIndex,
			IsCorrect:     isCorrect,
			PointsAwarded: points,
			TotalScore:    totalScore,
		})
	}
	if m.board != nil {
		go func() {
			if err := m.board.UpdateScore(context.Background(), roomID, playerID, totalScore); err != nil {
				log.Printf("leaderboard update failed for room %s: %v", roomID, err)
			}
		}()
	}

	return &answer, nil
}

// Advance is the creator's explicit "next question". questionIndex names the
// question being advanced FROM; if it no longer matches current state the
// advance already happened (a timer fire won the race) and the call is a
// no-op returning the fresh snapshot, same drop semantics as the timer path.
func (m *Manager) Advance(roomID, callerID string, questionIndex int) (*model.SessionSnapshot, error) {
	entry, err := m.entry(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil {
		entry.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.CreatedBy != callerID {
		entry.mu.Unlock()
		return nil, ErrForbidden
	}
	if s.Status != model.SessionActive {
		entry.mu.Unlock()
		return nil, ErrInvalidState
	}
	if s.CurrentQuestionIndex != questionIndex {
		snap := snapshot(s)
		entry.mu.Unlock()
		return snap, nil
	}

	return m.advanceLocked(entry, s)
}

// onDeadline is the clock's expiry path. A fire whose question index no
// longer matches current state lost the race to a manual advance and is
// dropped without error.
func (m *Manager) onDeadline(roomID string, questionIndex int) {
	entry, err := m.entry(roomID)
	if err != nil {
		return
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil || s.Status != model.SessionActive || s.CurrentQuestionIndex != questionIndex {
		entry.mu.Unlock()
		return
	}

	if _, err := m.advanceLocked(entry, s); err != nil {
		log.Printf("auto-advance failed for room %s: %v", roomID, err)
	}
}

// advanceLocked increments the question cursor. Called with entry.mu held;
// releases it before publishing. If questions are exhausted it finishes the
// session, publishes final results and removes it from the registry.
func (m *Manager) advanceLocked(entry *roomEntry, s *model.GameSession) (*model.SessionSnapshot, error) {
	roomID := s.RoomID
	s.CurrentQuestionIndex++

	if s.CurrentQuestionIndex < len(s.Questions) {
		m.openDeadline(s)
		payload := m.questionPayload(s)
		snap := snapshot(s)
		entry.mu.Unlock()

		m.publish(roomID, EventNextQuestion, payload)
		return snap, nil
	}

	// Exhausted: terminal transition. Cancel any stray timer before the lock
	// is released so no late fire can touch a finished session.
	m.clock.Cancel(roomID)
	s.CurrentDeadline = time.Time{}
	s.Status = model.SessionFinished
	rankings := finalRankings(s)
	sessionID := s.ID
	snap := snapshot(s)
	m.remove(roomID, entry)
	entry.mu.Unlock()

	m.publish(roomID, EventGameFinished, GameFinishedPayload{
		SessionID:     sessionID,
		FinalRankings: rankings,
	})
	go m.persistResult(roomID, rankings)

	return snap, nil
}

// End force-terminates a waiting or active session. Creator only.
func (m *Manager) End(roomID, callerID string) error {
	entry, err := m.entry(roomID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	s := entry.session
	if s == nil {
		entry.mu.Unlock()
		return ErrSessionNotFound
	}
	if s.CreatedBy != callerID {
		entry.mu.Unlock()
		return ErrForbidden
	}
	if s.Status != model.SessionWaiting && s.Status != model.SessionActive {
		entry.mu.Unlock()
		return ErrInvalidState
	}

	m.clock.Cancel(roomID)
	s.CurrentDeadline = time.Time{}
	s.Status = model.SessionCancelled
	m.remove(roomID, entry)
	entry.mu.Unlock()

	m.publish(roomID, EventGameCancelled, map[string]string{"roomId": roomID})
	if m.broadcaster != nil {
		m.broadcaster.DisconnectRoom(roomID)
	}
	if m.board != nil {
		go func() {
			if err := m.board.Clear(context.Background(), roomID); err != nil {
				log.Printf("leaderboard clear failed for room %s: %v", roomID, err)
			}
		}()
	}

	return nil
}

// Status returns a read-only snapshot of the room's session.
func (m *Manager) Status(roomID string) (*model.SessionSnapshot, error) {
	entry, err := m.entry(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.session == nil {
		return nil, ErrSessionNotFound
	}
	return snapshot(entry.session), nil
}

// HasPlayer reports whether the player belongs to the room's live session.
// Used by the WebSocket attach path.
func (m *Manager) HasPlayer(roomID, playerID string) bool {
	entry, err := m.entry(roomID)
	if err != nil {
		return false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.session == nil {
		return false
	}
	_, ok := entry.session.Players[playerID]
	return ok
}

func (m *Manager) entry(roomID string) (*roomEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// remove drops the room from the registry. Called with entry.mu held; the
// nil session marks the entry dead for callers that already hold a pointer.
func (m *Manager) remove(roomID string, entry *roomEntry) {
	entry.session = nil
	m.mu.Lock()
	if current, ok := m.rooms[roomID]; ok && current == entry {
		delete(m.rooms, roomID)
	}
	m.mu.Unlock()
}

// openDeadline stamps the current question's deadline and arms the clock.
// The deadline sits on a millisecond boundary so the enforced instant is
// exactly the one clients see as deadlineUnixMs.
func (m *Manager) openDeadline(s *model.GameSession) {
	s.CurrentDeadline = time.Now().Truncate(time.Millisecond).Add(s.TimePerQuestion)
	roomID := s.RoomID
	index := s.CurrentQuestionIndex
	m.clock.Schedule(roomID, index, s.CurrentDeadline, func(questionIndex int) {
		m.onDeadline(roomID, questionIndex)
	})
}

func (m *Manager) questionPayload(s *model.GameSession) QuestionPayload {
	return QuestionPayload{
		Question:       s.Questions[s.CurrentQuestionIndex].Public(s.CurrentQuestionIndex, len(s.Questions)),
		DeadlineUnixMs: s.CurrentDeadline.UnixMilli(),
	}
}

func (m *Manager) publish(roomID, msgType string, payload interface{}) {
	if m.broadcaster == nil {
		return
	}
	m.broadcaster.BroadcastToRoom(roomID, msgType, payload)
}

func (m *Manager) persistResult(roomID string, rankings []model.RankingEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if m.stats != nil {
		if err := m.stats.RecordGameResult(ctx, roomID, rankings); err != nil {
			log.Printf("failed to persist game result for room %s: %v", roomID, err)
		}
	}
	if m.board != nil {
		if err := m.board.Clear(ctx, roomID); err != nil {
			log.Printf("leaderboard clear failed for room %s: %v", roomID, err)
		}
	}
}
