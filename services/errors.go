package services

import "errors"

// Room and registry errors. Handlers and the hub translate these into
// per-connection notifications; they never bring a room down.
var (
	ErrInvalidCatalog   = errors.New("catalog must contain at least one question")
	ErrRoomNotFound     = errors.New("room not found")
	ErrIDSpaceExhausted = errors.New("could not generate an unused room id")

	ErrWrongPhase       = errors.New("action is not valid in the current room phase")
	ErrAlreadyJoined    = errors.New("connection already joined this room")
	ErrNotJoined        = errors.New("player is not part of this room")
	ErrQuestionMismatch = errors.New("answer does not match the current question")
	ErrDuplicateAnswer  = errors.New("question has already been answered")
	ErrInvalidSelection = errors.New("invalid option selection")
)

// External service errors.
var (
	ErrExternalLookup       = errors.New("origin airport lookup failed")
	ErrMalformedSuggestions = errors.New("suggestion service returned malformed output")
)
