package web

import (
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	pickCookie    = "player_pick"
	sessionCookie = "session_id"

	pickCookieTTL = 365 * 24 * time.Hour
)

// readPick returns the remembered side, X when nothing valid is stored.
func readPick(r *http.Request) entity.Mark {
	cookie, err := r.Cookie(pickCookie)
	if err != nil {
		return entity.PlayerX
	}

	mark, err := entity.ParseMark(cookie.Value)
	if err != nil {
		return entity.PlayerX
	}

	return mark
}

func writePick(w http.ResponseWriter, mark entity.Mark) {
	http.SetCookie(w, &http.Cookie{
		Name:     pickCookie,
		Value:    string(mark),
		Path:     "/",
		Expires:  time.Now().Add(pickCookieTTL),
		SameSite: http.SameSiteLaxMode,
	})
}

func readSessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// writeSessionID sets a browser-session cookie, so closing the tab forgets the score.
func writeSessionID(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
