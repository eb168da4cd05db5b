package entity

import "strconv"

// Participant is whoever holds a seat: a chat user or the automated agent.
type Participant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Agent bool   `json:"agent,omitempty"`
}

func NewHuman(id int64, name string) *Participant {
	return &Participant{ID: id, Name: name}
}

func NewAgent(name string) *Participant {
	return &Participant{Name: name, Agent: true}
}

func (that *Participant) IsAgent() bool {
	return that != nil && that.Agent
}

// Is reports whether both values denote the same identity.
func (that *Participant) Is(other *Participant) bool {
	if that == nil || other == nil {
		return false
	}

	if that.Agent || other.Agent {
		return that.Agent && other.Agent
	}

	return that.ID == other.ID
}

func (that *Participant) DisplayName() string {
	if that == nil {
		return "-"
	}

	if that.Name != "" {
		return that.Name
	}

	return "player_" + strconv.FormatInt(that.ID, 10)
}
