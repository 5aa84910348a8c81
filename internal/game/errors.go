package game

import "errors"

var (
	// ErrSessionNotFound means the room has no live session.
	ErrSessionNotFound = errors.New("no game session for room")
	// ErrSessionExists means the room already has a waiting or active session.
	ErrSessionExists = errors.New("room already has a game session")
	// ErrAlreadyJoined means the player is already in the session.
	ErrAlreadyJoined = errors.New("player already joined")
	// ErrAlreadyAnswered means the player already answered this question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrForbidden means a non-creator attempted a creator-only action.
	ErrForbidden = errors.New("only the session creator may do this")
	// ErrInvalidState means the operation is illegal for the current status.
	ErrInvalidState = errors.New("operation not valid in current session state")
	// ErrInsufficientQuestions means the pool cannot satisfy the request.
	ErrInsufficientQuestions = errors.New("not enough questions match the filter")
	// ErrDeadlineExpired means the answer arrived at or after the deadline.
	ErrDeadlineExpired = errors.New("answer deadline has passed")
	// ErrUnknownPlayer means the player never joined this session.
	ErrUnknownPlayer = errors.New("player not in session")
	// ErrWrongQuestion means the answer targets a question that is not current.
	ErrWrongQuestion = errors.New("answer is not for the current question")
)
