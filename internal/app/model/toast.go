package model

import "time"

// Toast is a notification addressed to one dashboard session.
type Toast struct {
	ID          string    `json:"id"`
	Session     string    `json:"session"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	ToastStreamName     = "TOASTS"
	ToastStreamSubject  = "dashboard.toasts"
	ToastConsumerName   = "toast-relay"
	ToastStreamMaxAge   = 15 * time.Minute
	ToastStreamMaxBytes = 1024 * 1024 * 16 // 16MB
)
