package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/creatorstack/creatorstack-backend/pkg/config"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
	"github.com/creatorstack/creatorstack-backend/pkg/logger"
)

// InvitationEmail carries everything needed to notify an invitee.
type InvitationEmail struct {
	To        string
	TeamName  string
	InviterID string
	AcceptURL string
}

// Service sends transactional mail.
type Service interface {
	SendInvitation(ctx context.Context, msg InvitationEmail) error
}

// NewService returns a sendgrid-backed sender, or a log-only sender when no
// API key is configured (local development).
func NewService(cfg config.SendgridConfig, logg *logger.Logger) Service {
	if cfg.APIKey == "" {
		return &logSender{logg: logg}
	}
	return &sendgridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   cfg.DefaultFrom,
	}
}

type sendgridSender struct {
	client *sendgrid.Client
	from   string
}

func (s *sendgridSender) SendInvitation(ctx context.Context, msg InvitationEmail) error {
	subject := fmt.Sprintf("You've been invited to join %s", msg.TeamName)
	plain := fmt.Sprintf(
		"You have been invited to join %s on CreatorStack.\n\nAccept your invitation: %s\n\nThis link is single-use and expires.",
		msg.TeamName, msg.AcceptURL,
	)
	html := fmt.Sprintf(
		`<p>You have been invited to join <strong>%s</strong> on CreatorStack.</p><p><a href="%s">Accept your invitation</a></p><p>This link is single-use and expires.</p>`,
		msg.TeamName, msg.AcceptURL,
	)

	message := mail.NewSingleEmail(
		mail.NewEmail("CreatorStack", s.from),
		subject,
		mail.NewEmail("", msg.To),
		plain,
		html,
	)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send invitation email")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("sendgrid returned status %d", resp.StatusCode))
	}
	return nil
}

// logSender is used in development so invite links show up in the logs
// instead of disappearing into a mail queue.
type logSender struct {
	logg *logger.Logger
}

func (s *logSender) SendInvitation(ctx context.Context, msg InvitationEmail) error {
	if s.logg != nil {
		fields := map[string]any{
			"to":         msg.To,
			"team_name":  msg.TeamName,
			"accept_url": msg.AcceptURL,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "invitation email (dev sender)")
	}
	return nil
}
