package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruitika/storefront-api/models"
)

// Notifications renders and sends the storefront's emails. Every form
// submission produces an admin notification and a confirmation to the
// submitter.
type Notifications struct {
	mailer     Mailer
	adminEmail string
}

func NewNotifications(m Mailer, adminEmail string) *Notifications {
	return &Notifications{mailer: m, adminEmail: adminEmail}
}

func (n *Notifications) send(ctx context.Context, tmpl string, data any, msg Message) error {
	html, err := render(tmpl, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}
	msg.HTML = html
	return n.mailer.Send(ctx, msg)
}

func (n *Notifications) pair(ctx context.Context, name string, data any, adminMsg, userMsg Message) error {
	adminMsg.To = []string{n.adminEmail}
	adminErr := n.send(ctx, name+"_admin", data, adminMsg)
	userErr := n.send(ctx, name+"_confirm", data, userMsg)
	return errors.Join(adminErr, userErr)
}

func (n *Notifications) ContactReceived(ctx context.Context, c *models.Contact) error {
	return n.pair(ctx, "contact", c,
		Message{Subject: "New Contact Form Submission from " + c.Name, ReplyTo: c.Email},
		Message{Subject: "Thank you for contacting Fruitika", To: []string{c.Email}},
	)
}

func (n *Notifications) QuoteReceived(ctx context.Context, q *models.Quote) error {
	return n.pair(ctx, "quote", q,
		Message{Subject: "New Quote Request from " + q.Name, ReplyTo: q.Email},
		Message{Subject: "Quote Request Received - Fruitika", To: []string{q.Email}},
	)
}

// CareerReceived attaches the resume, when one was uploaded, to the admin
// copy only.
func (n *Notifications) CareerReceived(ctx context.Context, c *models.Career, resume *Attachment) error {
	admin := Message{
		Subject: fmt.Sprintf("New Job Application: %s - %s", c.Position, c.Name),
		ReplyTo: c.Email,
	}
	if resume != nil {
		admin.Attachments = []Attachment{*resume}
	}
	return n.pair(ctx, "career", c, admin,
		Message{Subject: "Application Received - Fruitika Careers", To: []string{c.Email}},
	)
}

func (n *Notifications) OrderConfirmed(ctx context.Context, o *models.Order) error {
	if o.Customer.Email == "" {
		return ErrNoRecipient
	}
	return n.send(ctx, "order_confirm", o, Message{
		Subject: "Order Confirmed - " + o.TrackingID,
		To:      []string{o.Customer.Email},
	})
}

// Test sends a fixed message so an admin can check SMTP settings.
func (n *Notifications) Test(ctx context.Context, to string) error {
	if to == "" {
		to = n.adminEmail
	}
	return n.send(ctx, "test", nil, Message{Subject: "Test Email from Fruitika", To: []string{to}})
}
