/*
Package server implements msgpack IPC for solving sessions.

The server reads a stream of msgpack-encoded requests from its reader (stdin
by default) and writes one msgpack response per request to its writer. Requests
are handled one at a time, in order. Every response echoes the request ID and
carries the time the request took in microseconds.

# IPC

A client opens a session and receives the opening guess:

	{"id": "r1", "action": "new"}
	{"id": "r1", "status": "ok", "session": "3f0c...", "guess": "SOARE", "state": "active", "remaining": 2315, "t": 41}

It then reports the colors the game gave for the current guess, using
B (black), Y (yellow) and G (green):

	{"id": "r2", "action": "feedback", "session": "3f0c...", "pattern": "BYBBG"}
	{"id": "r2", "status": "ok", "session": "3f0c...", "guess": "UNTIL", "state": "active", "remaining": 42, "t": 3120}

When one candidate is left the response carries it in "answer" and the state
becomes "solved". Contradictory feedback leaves the session "exhausted".

Other actions:

	play     the player used a different pool word ("word"); later feedback applies to it
	state    current guess, state and candidate count
	list     remaining candidates, optionally filtered by "prefix" and capped by "limit"
	close    drop the session

Errors never end the loop; they are reported with status "error", a message
and an HTTP-like code. End of input stops the server.
*/
package server

// Actions understood by the server.
const (
	ActionNew      = "new"
	ActionFeedback = "feedback"
	ActionPlay     = "play"
	ActionState    = "state"
	ActionList     = "list"
	ActionClose    = "close"
)

// Status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Request is a single client message.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action"`
	Session string `msgpack:"session,omitempty"`
	Pattern string `msgpack:"pattern,omitempty"` // for "feedback"
	Word    string `msgpack:"word,omitempty"`    // for "play"
	Prefix  string `msgpack:"prefix,omitempty"`  // for "list"
	Limit   int    `msgpack:"limit,omitempty"`   // for "list"
}

// Response answers one Request.
type Response struct {
	ID        string   `msgpack:"id"`
	Status    string   `msgpack:"status"`
	Error     string   `msgpack:"error,omitempty"`
	Code      int      `msgpack:"code,omitempty"`
	Session   string   `msgpack:"session,omitempty"`
	Guess     string   `msgpack:"guess,omitempty"`
	Answer    string   `msgpack:"answer,omitempty"`
	State     string   `msgpack:"state,omitempty"`
	Remaining int      `msgpack:"remaining"`
	Words     []string `msgpack:"words,omitempty"`
	TimeTaken int64    `msgpack:"t"`
}

// Error codes.
const (
	CodeBadRequest      = 400
	CodeUnknownSession  = 404
	CodeTooManySessions = 429
	CodeInternal        = 500
)
