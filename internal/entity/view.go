package entity

// Button is one independently addressable control of a chat keyboard.
// Data is what the chat sends back when the button is pressed.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

type Keyboard struct {
	Rows [][]Button `json:"rows"`
}

// View is a rendered session, ready to be delivered to a chat.
type View struct {
	ChatID    int64    `json:"chat_id"`
	SessionID string   `json:"session_id,omitempty"`
	Text      string   `json:"text"`
	Keyboard  Keyboard `json:"keyboard"`
}

type ChatStats struct {
	ChatID     int64         `json:"chat_id"`
	Games      int64         `json:"games"`
	Wins       int64         `json:"wins"`
	Draws      int64         `json:"draws"`
	TopPlayers []PlayerTally `json:"top_players,omitempty"`
}

type PlayerTally struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}
