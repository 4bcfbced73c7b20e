package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/pkg/models"
)

// BoardActions is what the interactive board drives; *board.Mover satisfies it
type BoardActions interface {
	Board() board.Board
	Reload(ctx context.Context) error
	Move(ctx context.Context, jobID string, to board.Column) error
	MarkApplied(ctx context.Context, jobID string) error
	Reject(ctx context.Context, jobID string) error
	GenerateOutreach(ctx context.Context, jobID string) (models.OutreachContent, error)
}

const boardHelp = `Commands:
  m <n> <column>   move card n (pending, ready, drafts, applied, rejected)
  o <n>            generate outreach for card n
  a <n>            mark card n applied
  x <n>            reject card n
  s <n>            show card n
  r                reload from the backend
  h                help
  q                quit`

// Session is a line-driven Kanban board. Register OnChange with the mover so
// local changes are drawn before the backend confirms them.
type Session struct {
	out   io.Writer
	width int
	now   func() time.Time

	mu    sync.Mutex
	order []string
}

// NewSession creates a session writing to out
func NewSession(out io.Writer, width int) *Session {
	return &Session{out: out, width: width, now: time.Now}
}

// OnChange redraws the board
func (s *Session) OnChange(b board.Board) {
	s.draw(b)
}

func (s *Session) draw(b board.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = CardOrder(b)
	fmt.Fprintln(s.out, RenderBoard(b, s.width))
}

func (s *Session) jobAt(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("%q is not a card number", arg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.order) {
		return "", fmt.Errorf("no card %d on the board", n)
	}
	return s.order[n-1], nil
}

// Run reads commands from in until q, EOF or ctx is done
func (s *Session) Run(ctx context.Context, in io.Reader, actions BoardActions) error {
	if err := actions.Reload(ctx); err != nil {
		fmt.Fprintln(s.out, RenderError(err, "r"))
		s.draw(actions.Board())
	}
	fmt.Fprintln(s.out, Muted("Type h for help."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		quit, err := s.exec(ctx, actions, fields)
		if err != nil {
			fmt.Fprintln(s.out, RenderError(err, ""))
		}
		if quit {
			return nil
		}
	}
}

var errUsage = errors.New("unknown command, type h for help")

func (s *Session) exec(ctx context.Context, actions BoardActions, fields []string) (bool, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(s.out, boardHelp)
		return false, nil
	case "r", "reload":
		return false, actions.Reload(ctx)
	}

	if len(args) == 0 {
		return false, errUsage
	}
	jobID, err := s.jobAt(args[0])
	if err != nil {
		return false, err
	}

	switch cmd {
	case "m", "move":
		if len(args) < 2 {
			return false, errors.New("usage: m <n> <column>")
		}
		col, err := board.ParseColumn(strings.Join(args[1:], " "))
		if err != nil {
			return false, err
		}
		return false, actions.Move(ctx, jobID, col)
	case "a", "apply":
		return false, actions.MarkApplied(ctx, jobID)
	case "x", "reject":
		return false, actions.Reject(ctx, jobID)
	case "o", "outreach":
		content, err := actions.GenerateOutreach(ctx, jobID)
		if !content.IsEmpty() {
			fmt.Fprintln(s.out, RenderOutreach(content))
		}
		return false, err
	case "s", "show":
		for _, lane := range actions.Board().Lanes {
			for _, job := range lane.Jobs {
				if job.ID == jobID {
					fmt.Fprintln(s.out, RenderJobDetail(job, s.now()))
					return false, nil
				}
			}
		}
		return false, fmt.Errorf("card %s is no longer on the board", args[0])
	}
	return false, errUsage
}
