package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

// Message is a plain-text transactional mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers transactional mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type transport interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	client   transport
	from     string
	fromName string
	logg     *logger.Logger
}

// NewSendgridSender builds a sender from config.
func NewSendgridSender(cfg config.SendgridConfig, logg *logger.Logger) (*SendgridSender, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return newSender(sendgrid.NewSendClient(apiKey), cfg, logg)
}

func newSender(client transport, cfg config.SendgridConfig, logg *logger.Logger) (*SendgridSender, error) {
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, fmt.Errorf("sendgrid from address is required")
	}
	return &SendgridSender{
		client:   client,
		from:     from,
		fromName: cfg.FromName,
		logg:     logg,
	}, nil
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}

	email := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.from),
		msg.Subject,
		sgmail.NewEmail("", to),
		msg.Body,
		fmt.Sprintf("<pre>%s</pre>", msg.Body),
	)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send email")
	}
	if resp.StatusCode >= 400 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sendgrid rejected email: status=%d", resp.StatusCode))
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"mail_status":  resp.StatusCode,
			"mail_subject": msg.Subject,
		})
		s.logg.Info(logCtx, "mail.sent")
	}
	return nil
}
