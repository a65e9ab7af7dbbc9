package ports

import "context"

// ConfirmationJob is a queued request to send a confirmation mail.
type ConfirmationJob struct {
	Email string
	Name  string
	Code  string
}

// Mailer delivers confirmation mails. Actual delivery is a collaborator
// concern; the shipped implementation only logs.
type Mailer interface {
	SendConfirmation(ctx context.Context, job ConfirmationJob) error
}

// ConfirmationEnqueuer hands confirmation jobs to the background dispatcher
// without blocking the signup request.
type ConfirmationEnqueuer interface {
	Enqueue(job ConfirmationJob)
}
