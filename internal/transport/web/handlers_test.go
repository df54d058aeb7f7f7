package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const testDelay = 500 * time.Millisecond

func newTestServer(t *testing.T) (*Server, usecase.GameUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionService := service.NewSessionService(repository.NewMemorySessionRepository(time.Hour))
	gamePlayService := service.NewGamePlayService(logger, sessionService, service.NewBotService(func(int) int { return 0 }))
	gameUseCase := usecase.NewGameUseCase(sessionService, gamePlayService)

	return New(logger, gameUseCase, testDelay), gameUseCase
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}

// startGame loads the game page and returns the session cookie it set.
func startGame(t *testing.T, h http.Handler, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	rr := do(t, h, http.MethodGet, "/game", nil, cookies...)
	require.Equal(t, http.StatusOK, rr.Code)

	cookie := findCookie(rr, sessionCookie)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)

	return rr, cookie
}

func TestPing(t *testing.T) {
	h, _ := newTestServer(t)

	rr := do(t, h, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestIndex(t *testing.T) {
	t.Run("Defaults to X", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodGet, "/", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "<!doctype html>")
		assert.Contains(t, body, `value="X" class="active"`)
		assert.Contains(t, body, `href="/game"`)
	})

	t.Run("Shows the remembered pick", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodGet, "/", nil, &http.Cookie{Name: pickCookie, Value: "O"})

		assert.Contains(t, rr.Body.String(), `value="O" class="active"`)
	})

	t.Run("Ignores a garbage pick", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodGet, "/", nil, &http.Cookie{Name: pickCookie, Value: "Z"})

		assert.Contains(t, rr.Body.String(), `value="X" class="active"`)
	})
}

func TestPick(t *testing.T) {
	t.Run("Stores the mark and redirects home", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodPost, "/pick", strings.NewReader(url.Values{"mark": {"O"}}.Encode()))

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))

		cookie := findCookie(rr, pickCookie)
		require.NotNil(t, cookie)
		assert.Equal(t, "O", cookie.Value)
	})

	t.Run("Rejects an unknown mark", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodPost, "/pick", strings.NewReader(url.Values{"mark": {"Q"}}.Encode()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, findCookie(rr, pickCookie))
	})
}

func TestNewGame(t *testing.T) {
	t.Run("Human X gets an open board and no computer trigger", func(t *testing.T) {
		h, useCase := newTestServer(t)

		rr, cookie := startGame(t, h)

		body := rr.Body.String()
		assert.Contains(t, body, "htmx.org")
		assert.Contains(t, body, `hx-post="/game/cell/0"`)
		assert.NotContains(t, body, `hx-post="/game/computer"`)

		session, err := useCase.GetSession(context.Background(), cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, session.HumanMark)
	})

	t.Run("Human O waits for the computer to open", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr, _ := startGame(t, h, &http.Cookie{Name: pickCookie, Value: "O"})

		body := rr.Body.String()
		assert.Contains(t, body, `hx-post="/game/computer"`)
		assert.Contains(t, body, `hx-trigger="load delay:500ms"`)
		assert.NotContains(t, body, `hx-post="/game/cell/`)
	})

	t.Run("Every page load starts a new session", func(t *testing.T) {
		h, _ := newTestServer(t)

		_, first := startGame(t, h)
		_, second := startGame(t, h, first)

		assert.NotEqual(t, first.Value, second.Value)
	})
}

func TestPlayRound(t *testing.T) {
	h, useCase := newTestServer(t)
	_, cookie := startGame(t, h)

	// Given: the human plays 0 and the computer answers in the first free cell
	rr := do(t, h, http.MethodPost, "/game/cell/0", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `hx-post="/game/computer"`)

	rr = do(t, h, http.MethodPost, "/game/computer", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	// When: the human clicks a taken cell
	rr = do(t, h, http.MethodPost, "/game/cell/1", nil, cookie)

	// Then: the fragment shows the rejection inline
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid move")

	// When: X finishes 0, 3, 4, 8 while the computer blocks 6 and 5
	for _, cell := range []string{"3", "4"} {
		do(t, h, http.MethodPost, "/game/cell/"+cell, nil, cookie)
		do(t, h, http.MethodPost, "/game/computer", nil, cookie)
	}
	rr = do(t, h, http.MethodPost, "/game/cell/8", nil, cookie)

	// Then: the result, the winning line and the score are shown
	body := rr.Body.String()
	assert.Contains(t, body, "X wins!")
	assert.Equal(t, 3, strings.Count(body, "winning-cell"))
	assert.Contains(t, body, `hx-post="/game/next"`)

	tally, err := useCase.Tally(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, entity.Tally{HumanWins: 1}, tally)

	// And: a stale computer trigger changes nothing
	rr = do(t, h, http.MethodPost, "/game/computer", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `class="alert"`)

	// When: the next round starts
	rr = do(t, h, http.MethodPost, "/game/next", nil, cookie)

	// Then: the board is empty again and the score is kept
	body = rr.Body.String()
	assert.NotContains(t, body, "X wins!")
	assert.Contains(t, body, `hx-post="/game/cell/0"`)
	assert.Contains(t, body, `<p class="you_span">X (you)</p><span>1</span>`)
}

func TestBoard(t *testing.T) {
	t.Run("Renders the current session", func(t *testing.T) {
		h, _ := newTestServer(t)
		_, cookie := startGame(t, h)

		rr := do(t, h, http.MethodGet, "/game/board", nil, cookie)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `id="board"`)
		assert.NotContains(t, rr.Body.String(), "<!doctype html>")
	})

	t.Run("Sends a lost session back to a new game", func(t *testing.T) {
		h, _ := newTestServer(t)

		rr := do(t, h, http.MethodGet, "/game/board", nil, &http.Cookie{Name: sessionCookie, Value: "gone"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "/game", rr.Header().Get("HX-Redirect"))
	})
}

func TestCell_NotANumber(t *testing.T) {
	h, _ := newTestServer(t)
	_, cookie := startGame(t, h)

	rr := do(t, h, http.MethodPost, "/game/cell/abc", nil, cookie)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid move")
}

func TestNext_WhileInProgress(t *testing.T) {
	h, _ := newTestServer(t)
	_, cookie := startGame(t, h)

	rr := do(t, h, http.MethodPost, "/game/next", nil, cookie)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Finish this round first")
}
