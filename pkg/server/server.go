package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/lexicon"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultMaxSessions bounds the number of open sessions when Options leaves it unset.
const DefaultMaxSessions = 64

const defaultListLimit = 20

// Options configures a Server.
type Options struct {
	MaxSessions int
	// Logger receives the server's own log lines. Nil uses the package-level logger.
	Logger *log.Logger
}

type game struct {
	s     *session.Session
	guess words.WordID
}

// Server handles the IPC for solving sessions
type Server struct {
	env         *environment.Environment
	engine      *solver.Engine
	index       *lexicon.Index
	sessions    map[string]*game
	maxSessions int
	logger      *log.Logger

	in  io.Reader
	dec *msgpack.Decoder
	enc *msgpack.Encoder

	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(env *environment.Environment, engine *solver.Engine, r io.Reader, w io.Writer, opts Options) *Server {
	maxSessions := opts.MaxSessions
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	return &Server{
		logger:      l,
		env:         env,
		engine:      engine,
		index:       lexicon.New(env),
		sessions:    make(map[string]*game),
		maxSessions: maxSessions,
		in:          r,
		dec:         msgpack.NewDecoder(r),
		enc:         msgpack.NewEncoder(w),
	}
}

// Start serves requests until the input ends or ctx is cancelled. A request
// that cannot be decoded ends the loop since the stream cannot be resynced.
// On cancellation the input is closed when it is an io.Closer, which unblocks
// a pending read.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting Server.")

	if err := s.enc.Encode(Response{Status: StatusReady}); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	reqs := s.readRequests(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var in decoded
		select {
		case <-ctx.Done():
			s.closeInput()
			return ctx.Err()
		case in = <-reqs:
		}

		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", in.err)
			s.send(errorResponse("", CodeBadRequest, "malformed request"))
			return in.err
		}
		s.requests++

		start := time.Now()
		resp := s.handleRequest(in.req)
		resp.ID = in.req.ID
		resp.TimeTaken = time.Since(start).Microseconds()
		s.send(resp)
	}
}

type decoded struct {
	req Request
	err error
}

// readRequests decodes requests on its own goroutine until a decode fails or
// done is closed.
func (s *Server) readRequests(done <-chan struct{}) <-chan decoded {
	reqs := make(chan decoded)
	go func() {
		for {
			var d decoded
			d.err = s.dec.Decode(&d.req)
			select {
			case reqs <- d:
			case <-done:
				return
			}
			if d.err != nil {
				return
			}
		}
	}()
	return reqs
}

func (s *Server) closeInput() {
	c, ok := s.in.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		s.logger.Debugf("Closing input: %v", err)
	}
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	return len(s.sessions)
}

func (s *Server) send(resp Response) {
	if err := s.enc.Encode(resp); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func errorResponse(session string, code int, format string, args ...any) Response {
	return Response{
		Status:  StatusError,
		Session: session,
		Code:    code,
		Error:   fmt.Sprintf(format, args...),
	}
}

func (s *Server) handleRequest(req Request) Response {
	s.logger.Debugf("Request %s: action=%s session=%s", req.ID, req.Action, req.Session)

	if req.Action == ActionNew {
		return s.handleNew()
	}

	g, ok := s.sessions[req.Session]
	switch req.Action {
	case ActionFeedback, ActionPlay, ActionState, ActionList, ActionClose:
		if !ok {
			return errorResponse(req.Session, CodeUnknownSession, "unknown session %q", req.Session)
		}
	default:
		return errorResponse(req.Session, CodeBadRequest, "unknown action %q", req.Action)
	}

	switch req.Action {
	case ActionFeedback:
		return s.handleFeedback(req.Session, g, req.Pattern)
	case ActionPlay:
		return s.handlePlay(req.Session, g, req.Word)
	case ActionList:
		return s.handleList(req.Session, g, req.Prefix, req.Limit)
	case ActionClose:
		delete(s.sessions, req.Session)
		return Response{Status: StatusOK, Session: req.Session, State: g.s.State().String(), Remaining: g.s.Remaining()}
	}
	return s.stateResponse(req.Session, g)
}

func (s *Server) handleNew() Response {
	if len(s.sessions) >= s.maxSessions {
		return errorResponse("", CodeTooManySessions, "session limit of %d reached", s.maxSessions)
	}
	id := uuid.NewString()
	g := &game{s: session.New(s.env), guess: s.env.StartingGuess()}
	s.sessions[id] = g
	return s.stateResponse(id, g)
}

func (s *Server) handleFeedback(id string, g *game, text string) Response {
	if g.s.State() != session.Active {
		return errorResponse(id, CodeBadRequest, "session is %s", g.s.State())
	}
	p, err := words.ParsePattern(text)
	if err != nil {
		return errorResponse(id, CodeBadRequest, "invalid pattern: %v", err)
	}
	if err := g.s.Narrow(g.guess, p); err != nil {
		return errorResponse(id, CodeInternal, "%v", err)
	}
	if g.s.State() == session.Active {
		next, err := s.engine.Next(g.s)
		if err != nil {
			return errorResponse(id, CodeInternal, "%v", err)
		}
		g.guess = next
	}
	return s.stateResponse(id, g)
}

func (s *Server) handlePlay(id string, g *game, word string) Response {
	wid, err := s.index.Lookup(word)
	if err != nil {
		return errorResponse(id, CodeBadRequest, "%v", err)
	}
	g.guess = wid
	return s.stateResponse(id, g)
}

func (s *Server) handleList(id string, g *game, prefix string, limit int) Response {
	if limit <= 0 {
		limit = defaultListLimit
	}
	ids, err := s.index.WithPrefix(prefix, limit, g.s.IsCandidate)
	if err != nil {
		return errorResponse(id, CodeBadRequest, "%v", err)
	}
	resp := s.stateResponse(id, g)
	resp.Words = make([]string, len(ids))
	for i, wid := range ids {
		w, _ := s.env.Word(wid)
		resp.Words[i] = w.String()
	}
	return resp
}

func (s *Server) stateResponse(id string, g *game) Response {
	resp := Response{
		Status:    StatusOK,
		Session:   id,
		State:     g.s.State().String(),
		Remaining: g.s.Remaining(),
	}
	switch g.s.State() {
	case session.Active:
		w, _ := s.env.Word(g.guess)
		resp.Guess = w.String()
	case session.Solved:
		answer, _ := g.s.Unique()
		w, _ := s.env.Word(answer)
		resp.Answer = w.String()
		resp.Guess = resp.Answer
	}
	return resp
}
