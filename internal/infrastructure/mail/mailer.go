// Package mail holds the confirmation-mail sender. Actual delivery is an
// external collaborator concern; the shipped implementation records the mail
// in the log so the confirmation link is visible in development.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/core/ports"
)

type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendConfirmation(_ context.Context, job ports.ConfirmationJob) error {
	m.log.Info().
		Str("email", job.Email).
		Str("name", job.Name).
		Str("confirmation_code", job.Code).
		Msg("confirmation mail queued for delivery")
	return nil
}
