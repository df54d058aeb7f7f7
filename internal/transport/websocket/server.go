package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const maxMessageSize = 4096

type gameUseCase interface {
	StartSession(ctx context.Context, humanMark entity.Mark) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Session, error)
	BotTurn(ctx context.Context, sessionID string) (*entity.Session, error)
	NextRound(ctx context.Context, sessionID string) (*entity.Session, error)

	Tally(ctx context.Context, sessionID string) (entity.Tally, error)
}

type handlerFunc func(ctx context.Context, payload RequestPayload) (ResponsePayload, error)

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	upgrader websocket.Upgrader
	router   chi.Router

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionSessionNew] = server.handleSessionNew
	server.handlers[actionSessionGet] = server.handleSessionGet
	server.handlers[actionSessionEnd] = server.handleSessionEnd
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameBot] = server.handleGameComputer
	server.handlers[actionGameNext] = server.handleGameNext
	server.handlers[actionScoreTally] = server.handleScoreTally

	router := chi.NewRouter()
	router.Get("/ws", server.upgradeToWebSocket)
	server.router = router

	return server
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.router.ServeHTTP(w, r)
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	ctx := r.Context()

	// unblocks ReadMessage when the server shuts down
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || ctx.Err() != nil {
				log.Info("WebSocket connection closed")
				return nil
			}

			return err
		}

		response := that.processMessage(ctx, data)

		if err = conn.WriteJSON(response); err != nil {
			return err
		}
	}
}

func (that *Server) processMessage(ctx context.Context, data []byte) Message {
	log := that.logger.With("method", "processMessage")

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		return newResponse(actionError, ResponsePayload{Error: errorText(ErrBadPayload)})
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action", "action", message.Action)
		return newResponse(message.Action, ResponsePayload{Error: errorText(ErrUnknownAction)})
	}

	var payload RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return newResponse(message.Action, ResponsePayload{Error: errorText(ErrBadPayload)})
		}
	}

	response, err := handler(ctx, payload)
	if err != nil {
		if isPublic(err) {
			log.Debug("request rejected", "action", message.Action, "error", err)
		} else {
			log.Error("error processing message", "action", message.Action, "error", err)
		}

		response.Error = errorText(err)
	}

	return newResponse(message.Action, response)
}

func newResponse(action string, payload ResponsePayload) Message {
	body, _ := json.Marshal(payload) //nolint: errchkjson // payload holds only plain values

	return Message{
		Action:  action,
		Payload: body,
	}
}
