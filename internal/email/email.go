package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"bookoro/config"
	"bookoro/internal/kafka"
)

type Sender struct {
	cfg config.SMTPConfig
}

func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{cfg: cfg}
}

var otpTmpl = template.Must(template.New("otp").Parse(`<html><body>
<h2>Verify your email</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Welcome to Bookoro! Use the code below to verify your email address:</p>
<p style="font-size:32px;letter-spacing:8px;font-family:monospace"><strong>{{.OTP}}</strong></p>
<p>This code expires in 10 minutes.</p>
<p>If you didn't create an account with Bookoro, you can safely ignore this email.</p>
</body></html>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html><body>
<h2>Booking confirmed</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Your flight from <strong>{{.Origin}}</strong> to <strong>{{.Destination}}</strong> departing {{.DepartureTime.Format "Mon, Jan 2 2006 15:04 MST"}} has been booked.</p>
<p>Booking reference: <strong>{{.Ref}}</strong></p>
<p>Fare: ${{printf "%.2f" .Price}}</p>
<p>Safe travels!</p>
</body></html>`))

func (s *Sender) SendOTP(ctx context.Context, event kafka.NotificationEvent) error {
	var body bytes.Buffer
	if err := otpTmpl.Execute(&body, event); err != nil {
		return err
	}
	return s.send(ctx, event.Email, "Your Verification Code - Bookoro", body.Bytes())
}

func (s *Sender) SendBookingConfirmation(ctx context.Context, event kafka.NotificationEvent) error {
	ref := event.BookingID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, struct {
		kafka.NotificationEvent
		Ref string
	}{event, ref})
	if err != nil {
		return err
	}
	return s.send(ctx, event.Email, "Booking Confirmed - Bookoro", body.Bytes())
}

// send speaks SMTP over implicit TLS (port 465 style, matching the
// deployment's provider). Context cancellation closes the connection.
func (s *Sender) send(ctx context.Context, to, subject string, htmlBody []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.Username); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(htmlBody)

	if _, err := w.Write(msg.Bytes()); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
