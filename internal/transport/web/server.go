package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type gameUseCase interface {
	StartSession(ctx context.Context, humanMark entity.Mark) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)

	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	BotTurn(ctx context.Context, sessionID string) (*entity.Session, error)
	NextRound(ctx context.Context, sessionID string) (*entity.Session, error)
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	// how long the page waits before asking for the computer's move
	computerDelay time.Duration

	tpl    *templates
	router chi.Router
}

func New(logger *slog.Logger, gameUseCase gameUseCase, computerDelay time.Duration) *Server {
	server := &Server{
		logger:        logger.With("component", "web"),
		gameUseCase:   gameUseCase,
		computerDelay: computerDelay,
		tpl:           loadTemplates(),
	}

	router := chi.NewRouter()
	router.Get("/", server.index)
	router.Post("/pick", server.pick)
	router.Get("/ping", server.ping)

	router.Route("/game", func(r chi.Router) {
		r.Get("/", server.newGame)
		r.Get("/board", server.board)
		r.Post("/cell/{cell}", server.cell)
		r.Post("/computer", server.computer)
		r.Post("/next", server.next)
	})

	server.router = router

	return server
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.router.ServeHTTP(w, r)
}
