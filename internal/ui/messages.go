package ui

import (
	"sync"
	"time"
)

// Message is a status line message
type Message struct {
	Text      string
	Timestamp time.Time
	Error     bool
}

// MessageLogger keeps the last status messages so they can be reviewed
// after the status line moved on
type MessageLogger struct {
	mu       sync.Mutex
	messages []Message
	maxSize  int
}

// NewMessageLogger creates a logger keeping at most maxSize messages
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{
		messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// Info records a message
func (ml *MessageLogger) Info(text string) {
	ml.add(text, false)
}

// Error records an error message
func (ml *MessageLogger) Error(text string) {
	ml.add(text, true)
}

func (ml *MessageLogger) add(text string, isErr bool) {
	if text == "" {
		return
	}
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.messages = append(ml.messages, Message{Text: text, Timestamp: time.Now(), Error: isErr})
	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// Latest returns the newest message
func (ml *MessageLogger) Latest() (Message, bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if len(ml.messages) == 0 {
		return Message{}, false
	}
	return ml.messages[len(ml.messages)-1], true
}

// Messages returns the messages newest first
func (ml *MessageLogger) Messages() []Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	result := make([]Message, len(ml.messages))
	for i, msg := range ml.messages {
		result[len(ml.messages)-1-i] = msg
	}
	return result
}

// Clear drops all messages
func (ml *MessageLogger) Clear() {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.messages = ml.messages[:0]
}
