// WebSocket wire types for the chat interface
package server

import "github.com/finmate/finmate/core"

// ClientMessage is what the chat UI sends over the socket.
type ClientMessage struct {
	Type    string `json:"type"` // "message", "history"
	Content string `json:"content,omitempty"`
}

// ServerMessage is what the server emits while a coach flow runs.
type ServerMessage struct {
	Type     string             `json:"type"` // "thinking", "typing", "text_chunk", "complete", "history", "error"
	Content  string             `json:"content,omitempty"`
	Messages []core.ChatMessage `json:"messages,omitempty"`
}
