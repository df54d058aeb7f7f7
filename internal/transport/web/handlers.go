package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

func (that *Server) index(w http.ResponseWriter, r *http.Request) {
	that.writePage(w, that.tpl.index, indexView{Pick: readPick(r)})
}

func (that *Server) pick(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	mark, err := entity.ParseMark(r.FormValue("mark"))
	if err != nil {
		http.Error(w, "mark must be X or O", http.StatusBadRequest)
		return
	}

	writePick(w, mark)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// newGame starts a fresh session on every full page load.
func (that *Server) newGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "newGame")

	session, err := that.gameUseCase.StartSession(r.Context(), readPick(r))
	if err != nil {
		log.Error("failed to start session", "error", err)
		http.Error(w, "failed to start game", http.StatusInternalServerError)
		return
	}

	writeSessionID(w, session.ID)
	log.Info("session started", "sessionID", session.ID, "humanMark", session.HumanMark)

	that.writePage(w, that.tpl.game, newBoardView(session, that.computerDelay, ""))
}

func (that *Server) board(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.GetSession(r.Context(), readSessionID(r))
	that.respondBoard(w, session, err, "board")
}

func (that *Server) cell(w http.ResponseWriter, r *http.Request) {
	sessionID := readSessionID(r)

	cell, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		session, getErr := that.gameUseCase.GetSession(r.Context(), sessionID)
		if getErr != nil {
			that.respondBoard(w, nil, getErr, "cell")
			return
		}

		that.respondBoard(w, session, apperror.ErrIllegalMove, "cell")
		return
	}

	session, err := that.gameUseCase.MakeTurn(r.Context(), sessionID, cell)
	that.respondBoard(w, session, err, "cell")
}

func (that *Server) computer(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.BotTurn(r.Context(), readSessionID(r))

	// a trigger that fires after the state moved on is harmless
	if errors.Is(err, apperror.ErrNotYourTurn) || errors.Is(err, apperror.ErrGameFinished) {
		err = nil
	}

	that.respondBoard(w, session, err, "computer")
}

func (that *Server) next(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.NextRound(r.Context(), readSessionID(r))
	that.respondBoard(w, session, err, "next")
}

// respondBoard renders the board fragment. Game rule rejections are shown
// inline; a lost session sends the browser back to a new game.
func (that *Server) respondBoard(w http.ResponseWriter, session *entity.Session, err error, method string) {
	log := that.logger.With("method", method)

	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrSessionNotFound):
		log.Info("session not found, restarting")
		w.Header().Set("HX-Redirect", "/game")
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case session == nil:
		log.Error("failed to process request", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	default:
		log.Debug("move rejected", "sessionID", session.ID, "error", err)
	}

	that.writePage(w, that.tpl.board, newBoardView(session, that.computerDelay, rejectionText(err)))
}

func rejectionText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, apperror.ErrGameFinished):
		return "Round is over"
	case errors.Is(err, apperror.ErrRoundInProgress):
		return "Finish this round first"
	case errors.Is(err, apperror.ErrIllegalMove):
		return "Invalid move"
	default:
		return "Something went wrong"
	}
}

func (that *Server) writePage(w http.ResponseWriter, tpl *template.Template, data any) {
	body, err := render(tpl, data)
	if err != nil {
		that.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
