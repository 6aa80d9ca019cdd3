// Package cli runs the interactive solving loop on a terminal.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/bastiangx/wordsolve/pkg/lexicon"
	"github.com/bastiangx/wordsolve/pkg/session"
	"github.com/bastiangx/wordsolve/pkg/solver"
	"github.com/bastiangx/wordsolve/pkg/words"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// DefaultListLimit caps the words printed by "list".
const DefaultListLimit = 50

// InputHandler reads Wordle feedback line by line and answers with the next
// guess until the word is found or no candidate is left.
//
// Besides a B/Y/G pattern a line may be one of:
//
//	play WORD       the guess actually played was WORD
//	list [PREFIX]   print remaining candidates
//	quit
type InputHandler struct {
	env       *environment.Environment
	engine    *solver.Engine
	index     *lexicon.Index
	in        *bufio.Reader
	out       io.Writer
	listLimit int

	word lipgloss.Style
	dim  lipgloss.Style
}

// NewInputHandler creates a handler reading from r and writing to w.
func NewInputHandler(env *environment.Environment, engine *solver.Engine, r io.Reader, w io.Writer, listLimit int) *InputHandler {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	// The renderer inspects w, so pipes and buffers get plain text.
	renderer := lipgloss.NewRenderer(w)
	return &InputHandler{
		env:       env,
		engine:    engine,
		index:     lexicon.New(env),
		in:        bufio.NewReader(r),
		out:       w,
		listLimit: listLimit,
		word:      renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		dim:       renderer.NewStyle().Faint(true),
	}
}

var errQuit = errors.New("quit")

// Start plays one game. It returns nil when the game ends, the user quits or
// the input is exhausted.
func (h *InputHandler) Start() error {
	s := session.New(h.env)
	guess := h.env.StartingGuess()

	h.println("Output from Wordle formatted with [B]lack, [Y]ellow, [G]reen")
	if s.State() != session.Active {
		h.reportEnd(s)
		return nil
	}

	for s.State() == session.Active {
		h.printGuess(guess, s)
		err := h.readFeedback(s, guess)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch s.State() {
		case session.Active:
			start := time.Now()
			guess, err = h.engine.Next(s)
			if err != nil {
				return err
			}
			log.Debugf("Took [ %v ] to pick the next guess", time.Since(start))
		default:
			h.reportEnd(s)
		}
	}
	return nil
}

// readFeedback prompts until a pattern is applied to s. "play" replaces the
// guess the pattern will be applied to.
func (h *InputHandler) readFeedback(s *session.Session, guess words.WordID) error {
	for {
		h.println("What output did Wordle give you?")
		line, err := h.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return err
		}
		line = strings.TrimSpace(line)

		fields := strings.Fields(line)
		if len(fields) > 0 {
			switch strings.ToLower(fields[0]) {
			case "quit", "exit":
				return errQuit
			case "play":
				if len(fields) != 2 {
					h.println("Usage: play WORD")
					continue
				}
				id, lerr := h.index.Lookup(fields[1])
				if lerr != nil {
					h.printf("%q is not in the word list.\n", fields[1])
					continue
				}
				guess = id
				h.printGuess(guess, s)
				continue
			case "list":
				prefix := ""
				if len(fields) > 1 {
					prefix = fields[1]
				}
				h.list(s, prefix)
				continue
			}
		}

		p, perr := words.ParsePattern(line)
		if perr != nil {
			log.Debugf("Rejected feedback %q: %v", line, perr)
			h.println("Invalid input.")
			continue
		}
		if err := s.Narrow(guess, p); err != nil {
			return err
		}
		return nil
	}
}

func (h *InputHandler) list(s *session.Session, prefix string) {
	ids, err := h.index.WithPrefix(prefix, h.listLimit, s.IsCandidate)
	if err != nil {
		h.println("Invalid input.")
		return
	}
	if len(ids) == 0 {
		h.println("No matching options.")
		return
	}
	for i, id := range ids {
		w, _ := h.env.Word(id)
		h.printf("%3d. %s\n", i+1, h.word.Render(w.String()))
	}
	if len(ids) == h.listLimit {
		h.println(h.dim.Render(fmt.Sprintf("(showing the first %d)", h.listLimit)))
	}
}

func (h *InputHandler) printGuess(guess words.WordID, s *session.Session) {
	w, _ := h.env.Word(guess)
	h.printf("Guess \"%s\" (%d options)\n", h.word.Render(w.String()), s.Remaining())
}

func (h *InputHandler) reportEnd(s *session.Session) {
	if id, ok := s.Unique(); ok {
		w, _ := h.env.Word(id)
		h.printf("The word is \"%s\"\n", h.word.Render(w.String()))
		return
	}
	h.println("No options remain.")
}

func (h *InputHandler) println(msg string) {
	fmt.Fprintln(h.out, msg)
}

func (h *InputHandler) printf(format string, args ...any) {
	fmt.Fprintf(h.out, format, args...)
}
