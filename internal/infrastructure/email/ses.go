package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/lumio/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SESAPI is the subset of the SES client used for sending
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends mail through Amazon SES
type SESSender struct {
	client SESAPI
	from   string
	logger *zap.Logger
}

// NewSESSender builds an SES client from the default AWS chain
func NewSESSender(ctx context.Context, cfg config.EmailConfig, logger *zap.Logger) (*SESSender, error) {
	if cfg.From == "" {
		return nil, errors.New("email sender address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewSESSenderWithClient(client, cfg.From, logger), nil
}

// NewSESSenderWithClient wraps an existing client
func NewSESSenderWithClient(client SESAPI, from string, logger *zap.Logger) *SESSender {
	return &SESSender{client: client, from: from, logger: logger}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	body := &types.Body{Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", msg.To, err)
	}
	s.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

var _ Sender = (*SESSender)(nil)
