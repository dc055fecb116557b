package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"orDefault": func(v *string, fallback string) string {
		if v == nil || *v == "" {
			return fallback
		}
		return *v
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(`
{{define "contact_admin"}}
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
<p><strong>Company:</strong> {{orDefault .Company "Not provided"}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
{{end}}

{{define "contact_confirm"}}
<h2>Thank you for your inquiry!</h2>
<p>Dear {{.Name}},</p>
<p>We have received your message and will get back to you within 24 hours.</p>
<p><strong>Your message:</strong></p>
<p>{{.Message}}</p>
<br>
<p>Best regards,<br>Fruitika Team</p>
{{end}}

{{define "quote_admin"}}
<h2>New Quote Request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
<p><strong>Company:</strong> {{orDefault .Company "Not provided"}}</p>
<p><strong>Product:</strong> {{.Product}}</p>
<p><strong>Quantity:</strong> {{.Quantity}}</p>
<p><strong>Delivery Location:</strong> {{.Destination}}</p>
<p><strong>Additional Message:</strong></p>
<p>{{orDefault .Message "None"}}</p>
{{end}}

{{define "quote_confirm"}}
<h2>Thank you for your quote request!</h2>
<p>Dear {{.Name}},</p>
<p>We have received your quote request for <strong>{{.Product}}</strong> and will send you a detailed quote within 24 hours.</p>
<p><strong>Your request details:</strong></p>
<ul>
  <li>Product: {{.Product}}</li>
  <li>Quantity: {{.Quantity}}</li>
  <li>Delivery Location: {{.Destination}}</li>
</ul>
<br>
<p>Best regards,<br>Fruitika Sales Team</p>
{{end}}

{{define "career_admin"}}
<h2>New Job Application</h2>
<p><strong>Position:</strong> {{.Position}}</p>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{orDefault .Phone "Not provided"}}</p>
<p><strong>Experience:</strong> {{.Experience}}</p>
<p><strong>Location:</strong> {{orDefault .Location "Not provided"}}</p>
<p><strong>Cover Letter:</strong></p>
<p>{{orDefault .CoverLetter "None provided"}}</p>
{{if .ResumeName}}<p><strong>Resume:</strong> {{.ResumeName}} (attached)</p>{{else}}<p><strong>Resume:</strong> Not provided</p>{{end}}
{{end}}

{{define "career_confirm"}}
<h2>Thank you for your application!</h2>
<p>Dear {{.Name}},</p>
<p>We have received your application for the <strong>{{.Position}}</strong> position.</p>
<p>Our HR team will review your application and get back to you within 5-7 business days.</p>
<p><strong>Application Details:</strong></p>
<ul>
  <li>Position: {{.Position}}</li>
  <li>Experience: {{.Experience}}</li>
  <li>Resume: {{if .ResumeName}}Attached{{else}}Not provided{{end}}</li>
</ul>
<br>
<p>Best regards,<br>Fruitika HR Team</p>
{{end}}

{{define "order_confirm"}}
<h2>Thank you for your order!</h2>
<p>Dear {{.Customer.FullName}},</p>
<p>Your order <strong>{{.TrackingID}}</strong> has been confirmed and paid.</p>
<table cellpadding="4">
  <tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th></tr>
  {{range .Items}}<tr><td>{{.ProductName}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .UnitPrice}}</td></tr>
  {{end}}
</table>
<p>Subtotal: {{money .Subtotal}}<br>
Shipping: {{money .Shipping}}<br>
Tax: {{money .Tax}}<br>
<strong>Total: {{money .Total}} {{.Currency}}</strong></p>
<p>You can follow your delivery with tracking id {{.TrackingID}}.</p>
<br>
<p>Best regards,<br>Fruitika Team</p>
{{end}}

{{define "test"}}<h1>Test Email</h1><p>If you receive this, email is working!</p>{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
