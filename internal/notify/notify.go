package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront-service/internal/orders"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultHost = "https://api.sendgrid.com"

var ErrNotConfigured = errors.New("mail sender not configured")

// Conf sends order confirmations through SendGrid.
type Conf struct {
	apiKey     string
	from       string
	storeOwner string
	host       string
}

type Option func(*Conf)

// WithStoreOwner copies every confirmation to the shop inbox.
func WithStoreOwner(email string) Option {
	return func(c *Conf) { c.storeOwner = email }
}

// WithHost overrides the SendGrid API host.
func WithHost(host string) Option {
	return func(c *Conf) { c.host = host }
}

func NewConf(apiKey, from string, opts ...Option) (*Conf, error) {
	if apiKey == "" || from == "" {
		return nil, ErrNotConfigured
	}
	c := &Conf{apiKey: apiKey, from: from, host: defaultHost}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Conf) SendOrderConfirmation(ctx context.Context, rec orders.Record, o *orders.Order) error {
	if o == nil || o.Customer == nil || o.Customer.Email == "" {
		return errors.New("order has no customer email")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("900 Music", c.from),
		Subject(rec),
		mail.NewEmail(o.Customer.FullName(), o.Customer.Email),
		Body(rec, o),
		"",
	)
	if c.storeOwner != "" {
		message.Personalizations[0].AddBCCs(mail.NewEmail("", c.storeOwner))
	}

	request := sendgrid.GetRequest(c.apiKey, "/v3/mail/send", c.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	slog.Info("order confirmation sent", slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)),
		slog.String(logkey.OrderID, rec.OrderID), slog.Int("Status Code", response.StatusCode))
	return nil
}

func Subject(rec orders.Record) string {
	return "New Order: " + rec.OrderID
}

// Body renders the plain text order summary.
func Body(rec orders.Record, o *orders.Order) string {
	var b strings.Builder
	totals := o.Totals().Rounded()

	fmt.Fprintf(&b, "New Order Received\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", rec.OrderID)
	fmt.Fprintf(&b, "Date: %s\n", rec.OrderDate.Format("January 2, 2006"))
	if rec.Status == orders.StatusPaid {
		fmt.Fprintf(&b, "Payment: %s %s\n", rec.PaymentMethod, rec.PaymentID)
	}

	b.WriteString("\nCUSTOMER INFORMATION:\n")
	fmt.Fprintf(&b, "Name: %s\n", o.Customer.FullName())
	fmt.Fprintf(&b, "Email: %s\n", o.Customer.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orNA(o.Customer.Phone))
	fmt.Fprintf(&b, "Organization: %s\n", orNA(o.Customer.Organization))

	if a := o.Address; a != nil {
		b.WriteString("\nSHIPPING ADDRESS:\n")
		b.WriteString(a.Line1 + "\n")
		if a.Line2 != "" {
			b.WriteString(a.Line2 + "\n")
		}
		fmt.Fprintf(&b, "%s, %s %s\n", a.City, a.State, a.ZipCode)
		b.WriteString(a.Country + "\n")
	}

	b.WriteString("\nORDER ITEMS:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s by %s (%dx) - $%s\n", item.Name, item.Composer, item.Quantity, item.LineTotal().StringFixed(2))
	}

	b.WriteString("\nORDER SUMMARY:\n")
	fmt.Fprintf(&b, "Subtotal: $%s\n", totals.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Tax: $%s\n", totals.Tax.StringFixed(2))
	fmt.Fprintf(&b, "Total: $%s\n", totals.Total.StringFixed(2))

	b.WriteString("\nNOTES FOR SELLER:\n")
	if o.Notes != "" {
		b.WriteString(o.Notes + "\n")
	} else {
		b.WriteString("No additional notes\n")
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
