package mailer

import "time"

// EmailJob is the JSON body of an operator-notification queue message.
// A job either names a Template rendered by the worker from Data, or carries
// a ready Subject and Text/HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	QueuedAt time.Time      `json:"queued_at,omitzero"`
}

// Age is how long the job waited on the queue, or zero when unknown.
func (j EmailJob) Age(now time.Time) time.Duration {
	if j.QueuedAt.IsZero() {
		return 0
	}
	return now.Sub(j.QueuedAt)
}
