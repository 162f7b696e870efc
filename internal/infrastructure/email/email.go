// Package email sends transactional mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Message is a rendered email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Invitation is the data rendered into an invitation email
type Invitation struct {
	AgencyName string
	Role       string
	AcceptURL  string
}

var (
	invitationText = texttemplate.Must(texttemplate.New("invitation.txt").Parse(
		`You have been invited to join {{.AgencyName}} on Lumio as {{.Role}}.

Sign in with this email address to accept: {{.AcceptURL}}
`))
	invitationHTML = htmltemplate.Must(htmltemplate.New("invitation.html").Parse(
		`<p>You have been invited to join <strong>{{.AgencyName}}</strong> on Lumio as {{.Role}}.</p>
<p><a href="{{.AcceptURL}}">Accept the invitation</a> by signing in with this email address.</p>
`))
)

// InvitationMessage renders the invitation email for to
func InvitationMessage(to string, inv Invitation) (Message, error) {
	var text, html bytes.Buffer
	if err := invitationText.Execute(&text, inv); err != nil {
		return Message{}, fmt.Errorf("render invitation text: %w", err)
	}
	if err := invitationHTML.Execute(&html, inv); err != nil {
		return Message{}, fmt.Errorf("render invitation html: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You're invited to %s", inv.AgencyName),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
