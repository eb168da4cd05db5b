// Package render turns a session into the text and keyboard shown in the chat.
package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// Callback data carried by non-cell buttons.
const (
	DataNoop        = "noop"
	DataNewGame     = "new_game"
	DataChangeTheme = "change_theme_prompt"
)

type Renderer struct {
	joinTimeout time.Duration
}

func New(joinTimeout time.Duration) *Renderer {
	return &Renderer{joinTimeout: joinTimeout}
}

func (that *Renderer) Render(session *entity.Session) entity.View {
	return entity.View{
		ChatID:    session.ChatID,
		SessionID: session.ID,
		Text:      that.text(session),
		Keyboard:  Keyboard(session),
	}
}

// Keyboard lays the board out as three rows of buttons plus a control row.
// Empty cells carry their board index as data while the game runs.
func Keyboard(session *entity.Session) entity.Keyboard {
	rows := make([][]entity.Button, 0, 4)

	for row := 0; row < 3; row++ {
		buttons := make([]entity.Button, 0, 3)
		for col := 0; col < 3; col++ {
			buttons = append(buttons, cellButton(session, row*3+col))
		}
		rows = append(rows, buttons)
	}

	if session.IsFinished() {
		rows = append(rows, []entity.Button{{Text: "New game", Data: DataNewGame}})
	} else {
		rows = append(rows, []entity.Button{{Text: "Change theme", Data: DataChangeTheme}})
	}

	return entity.Keyboard{Rows: rows}
}

func cellButton(session *entity.Session, index int) entity.Button {
	cell := session.Board[index]

	if cell.IsEmpty() {
		button := entity.Button{Text: strconv.Itoa(cell.Index), Data: DataNoop}
		if !session.IsFinished() {
			button.Data = strconv.Itoa(index)
		}
		return button
	}

	text := string(cell.Mark)
	switch {
	case session.IsFinished() && slices.Contains(session.Line, index):
		text = "*" + text + "*"
	case session.LastMove != nil && *session.LastMove == index:
		text = "[" + text + "]"
	}

	return entity.Button{Text: text, Data: DataNoop}
}

func (that *Renderer) text(session *entity.Session) string {
	switch {
	case session.TimedOut:
		return "Time is up! The game was cancelled."
	case session.IsFinished() && session.Outcome.IsDraw():
		return "Draw!"
	case session.IsFinished():
		winner, _ := session.Outcome.Winner()
		return fmt.Sprintf("Winner: %s (%s)! Congratulations!", session.Winner().DisplayName(), winner)
	case session.IsWaiting():
		return that.waitingText(session)
	default:
		return ongoingText(session)
	}
}

func (that *Renderer) waitingText(session *entity.Session) string {
	var b strings.Builder

	b.WriteString("New game started!\n\n")
	for _, symbol := range []entity.Symbol{entity.SymbolX, entity.SymbolO} {
		if player := session.Players[symbol]; player != nil {
			fmt.Fprintf(&b, "%s plays %s\n", player.DisplayName(), symbol)
		}
	}
	b.WriteString("Waiting for a second player...\n\n")
	fmt.Fprintf(&b, "Turn: %s\n", session.Turn)
	fmt.Fprintf(&b, "Time to join: %d seconds", int(that.joinTimeout.Seconds()))

	return b.String()
}

func ongoingText(session *entity.Session) string {
	var b strings.Builder

	b.WriteString("Game in progress!\n\n")
	for _, symbol := range []entity.Symbol{entity.SymbolX, entity.SymbolO} {
		fmt.Fprintf(&b, "%s plays %s\n", session.Players[symbol].DisplayName(), symbol)
	}
	fmt.Fprintf(&b, "\nTurn: %s", session.Turn)

	return b.String()
}
