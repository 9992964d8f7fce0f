package protocol

import "lineae.dev/internal/sim/game"

// HELLO (client -> server)
type HelloMsg struct {
	Type              string   `json:"type"`
	ProtocolVersion   string   `json:"protocol_version"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
	PlayerName        string   `json:"player_name"`
	// Spectators receive STATE but cannot act.
	Spectator bool `json:"spectator,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	SelectedVersion string   `json:"selected_version,omitempty"`
	GameID          string   `json:"game_id"`
	Seat            int      `json:"seat"`
	Players         []string `json:"players"`
	Seed            int64    `json:"seed"`
	RulesDigest     string   `json:"rules_digest"`
}

// STATE (server -> client), sent after every commit.
type StateMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	Seq             uint64        `json:"seq"`
	Digest          string        `json:"digest"`
	Current         int           `json:"current"`
	Snapshot        game.Snapshot `json:"snapshot"`
	// Legal lists what the receiving seat may submit now.
	Legal []game.Action `json:"legal,omitempty"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ActID           string      `json:"act_id,omitempty"`
	Action          game.Action `json:"action"`
}

// ADVANCE (client -> server) asks the host to move the round along.
type AdvanceMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ActID           string `json:"act_id,omitempty"`
}

// RESULT (server -> client) answers one ACT or ADVANCE.
type ResultMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	ResultFor       string       `json:"result_for,omitempty"`
	Accepted        bool         `json:"accepted"`
	Code            string       `json:"code,omitempty"`
	Message         string       `json:"message,omitempty"`
	Suggestion      string       `json:"suggestion,omitempty"`
	Seq             uint64       `json:"seq,omitempty"`
	Events          []game.Event `json:"events,omitempty"`
}
