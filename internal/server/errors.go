package server

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveGame     = errors.New("no active game")
	ErrGameStarted      = errors.New("game already started")
	ErrRoomFull         = errors.New("room is full")
	ErrNotEnoughPlayers = errors.New("at least 4 connected players required")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("action not allowed in this phase")
	ErrAlreadyRevealed  = errors.New("card already revealed")
	ErrCategoryLocked   = errors.New("only the superpower card can be revealed in round one")
	ErrUnknownCategory  = errors.New("unknown card category")
	ErrInvalidTarget    = errors.New("cannot vote for that player")
)

// Error codes returned to the transport layer alongside the message.
const (
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeForbidden    = "forbidden"
	codeInvalidState = "invalid_state"
	codeBadRequest   = "bad_request"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrSessionNotFound):
		return codeNotFound
	case errors.Is(err, ErrGameStarted),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrNotEnoughPlayers),
		errors.Is(err, ErrAlreadyRevealed),
		errors.Is(err, ErrInvalidTarget):
		return codeConflict
	case errors.Is(err, ErrNotHost),
		errors.Is(err, ErrNotYourTurn):
		return codeForbidden
	case errors.Is(err, ErrWrongPhase),
		errors.Is(err, ErrNoActiveGame),
		errors.Is(err, ErrCategoryLocked):
		return codeInvalidState
	default:
		return codeBadRequest
	}
}
