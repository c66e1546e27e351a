package ports

import (
	"exoml/domain/core"
)

// Notification kinds
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
)

// Notification is a user-facing message raised by a timed action
type Notification struct {
	SessionID core.SessionID         `json:"session_id"`
	EventType string                 `json:"event_type"`
	Kind      string                 `json:"kind"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp core.Timestamp         `json:"timestamp"`
}

// Notifier delivers notifications to whoever is watching a session
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
