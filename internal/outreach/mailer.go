package outreach

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

const (
	headerTemplate    = "%s: %s\r\n"
	fromHeader        = "From"
	toHeader          = "To"
	subjectHeader     = "Subject"
	mimeVersionHeader = "MIME-Version"
	contentTypeHeader = "Content-Type"
	mimeVersionValue  = "1.0"
	plainTextType     = "text/plain; charset=UTF-8"
	lineBreak         = "\r\n"
	sendErrorTemplate = "send email to %s: %w"
)

// Message is one plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Bytes encodes the message with CRLF line endings. Header values are kept on one line.
func (message Message) Bytes() []byte {
	var builder strings.Builder
	fmt.Fprintf(&builder, headerTemplate, fromHeader, singleLine(message.From))
	fmt.Fprintf(&builder, headerTemplate, toHeader, singleLine(message.To))
	fmt.Fprintf(&builder, headerTemplate, subjectHeader, singleLine(message.Subject))
	fmt.Fprintf(&builder, headerTemplate, mimeVersionHeader, mimeVersionValue)
	fmt.Fprintf(&builder, headerTemplate, contentTypeHeader, plainTextType)
	builder.WriteString(lineBreak)
	body := strings.ReplaceAll(message.Body, lineBreak, "\n")
	builder.WriteString(strings.ReplaceAll(body, "\n", lineBreak))
	return []byte(builder.String())
}

// Mailer delivers messages.
type Mailer interface {
	Send(executionContext context.Context, message Message) error
}

type sendFunction func(address string, authentication smtp.Auth, from string, recipients []string, message []byte) error

// SMTPMailer sends through an authenticated SMTP server, upgrading with STARTTLS when offered.
type SMTPMailer struct {
	configuration SMTPConfiguration
	send          sendFunction
}

// NewSMTPMailer validates credentials and constructs an SMTPMailer.
func NewSMTPMailer(configuration SMTPConfiguration) (*SMTPMailer, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}
	return &SMTPMailer{configuration: configuration, send: smtp.SendMail}, nil
}

// Send delivers the message to its single recipient.
func (mailer *SMTPMailer) Send(executionContext context.Context, message Message) error {
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}
	address := net.JoinHostPort(mailer.configuration.Host, strconv.Itoa(mailer.configuration.Port))
	authentication := smtp.PlainAuth("", mailer.configuration.Username, mailer.configuration.Password, mailer.configuration.Host)
	if sendError := mailer.send(address, authentication, message.From, []string{message.To}, message.Bytes()); sendError != nil {
		return fmt.Errorf(sendErrorTemplate, message.To, sendError)
	}
	return nil
}

func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
