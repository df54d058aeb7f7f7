package web

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/score"
)

type templates struct {
	index *template.Template
	game  *template.Template
	board *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(baseTemplate))
	template.Must(base.New("board").Parse(boardTemplate))

	// pages execute "base", which pulls in their own "content"
	index := template.Must(base.Clone())
	template.Must(index.New("content").Parse(indexTemplate))

	game := template.Must(base.Clone())
	template.Must(game.New("content").Parse(gameTemplate))

	board := template.Must(template.New("board_only").Parse(boardTemplate))

	return &templates{index: index, game: game, board: board}
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}

	return buf.Bytes(), nil
}

type cellView struct {
	Index    int
	Mark     entity.Mark
	Winning  bool
	Playable bool
}

type boardView struct {
	Cells []cellView

	HumanMark    entity.Mark
	ComputerMark entity.Mark
	Turn         entity.Mark

	Finished     bool
	ComputerTurn bool
	Result       string

	// htmx delay, e.g. "500ms"
	ComputerDelay string

	Tally entity.Tally
	Error string
}

func newBoardView(session *entity.Session, computerDelay time.Duration, errMsg string) boardView {
	round := session.Round

	view := boardView{
		Cells:         make([]cellView, 0, len(round.Board)),
		HumanMark:     round.HumanMark,
		ComputerMark:  round.ComputerMark,
		Turn:          round.Turn,
		Finished:      round.IsFinished(),
		ComputerTurn:  round.IsComputerTurn(),
		Result:        resultText(round.Outcome),
		ComputerDelay: computerDelay.String(),
		Tally:         score.NewTracker(session.History).Tally(round.HumanMark),
		Error:         errMsg,
	}

	for i, mark := range round.Board {
		view.Cells = append(view.Cells, cellView{
			Index:    i,
			Mark:     mark,
			Winning:  slices.Contains(round.Outcome.Line, i),
			Playable: round.IsHumanTurn() && mark == entity.EmptyCell,
		})
	}

	return view
}

func resultText(outcome entity.Outcome) string {
	switch outcome.Status {
	case entity.StatusWon:
		return fmt.Sprintf("%s wins!", outcome.Winner)
	case entity.StatusTied:
		return "It's a tie!"
	default:
		return ""
	}
}

type indexView struct {
	Pick entity.Mark
}

const baseTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
  .game_container_board { display: grid; grid-template-columns: repeat(3, 96px); gap: 8px; }
  .game_container_board_item { width: 96px; height: 96px; font-size: 48px; }
  .winning-cell { background: #f2b137; }
  .active { outline: 3px solid #31c3bd; }
</style>
</head>
<body>{{template "content" .}}</body>
</html>`

const indexTemplate = `
<main class="picker">
  <h1>Pick player 1's mark</h1>
  <form action="/pick" method="post">
    <button id="x" name="mark" value="X"{{if eq .Pick "X"}} class="active"{{end}}>X</button>
    <button id="o" name="mark" value="O"{{if eq .Pick "O"}} class="active"{{end}}>O</button>
  </form>
  <p>Remember: X goes first</p>
  <a id="playButton" href="/game">New game (vs CPU)</a>
</main>`

const gameTemplate = `
<main>
  <a href="/">Change side</a>
  {{template "board" .}}
</main>`

const boardTemplate = `
<div id="board" class="game_container">
  {{if .ComputerTurn}}
  <div hx-post="/game/computer" hx-trigger="load delay:{{.ComputerDelay}}" hx-target="#board" hx-swap="outerHTML"></div>
  {{end}}
  <div id="turnButton" class="game_container_turn">
    {{if .Finished}}{{.Result}}{{else}}{{.Turn}} turn{{end}}
  </div>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="game_container_board">
    {{range .Cells}}
    <button class="game_container_board_item{{if .Winning}} winning-cell{{end}}"
      {{if .Playable}}hx-post="/game/cell/{{.Index}}" hx-target="#board" hx-swap="outerHTML"{{else}}disabled="disabled"{{end}}>{{.Mark}}</button>
    {{end}}
  </div>
  {{if .Finished}}
  <button id="nextButton" hx-post="/game/next" hx-target="#board" hx-swap="outerHTML">Next round</button>
  {{end}}
  <div class="game_container_score">
    <div class="game_container_score_button you"><p class="you_span">{{.HumanMark}} (you)</p><span>{{.Tally.HumanWins}}</span></div>
    <div class="game_container_score_button ties"><p>ties</p><span>{{.Tally.Ties}}</span></div>
    <div class="game_container_score_button cpu"><p class="cpu_span">{{.ComputerMark}} (cpu)</p><span>{{.Tally.ComputerWins}}</span></div>
  </div>
</div>
`
