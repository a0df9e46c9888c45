package mailer

import (
	"eventuate/src/lib"
	"log"
	"os"
)

// NewMailerMessage queues an email for background delivery. Failures are
// logged, not surfaced: notifications never block a request path.
func NewMailerMessage(input *lib.SendMailInput) {
	if input.From == "" {
		input.From = os.Getenv("SMTP_FROM")
	}
	if input.FromName == "" {
		input.FromName = "Eventuate"
	}
	go func() {
		if err := lib.SendMail(input); err != nil {
			log.Printf("Error sending email %q to %v: %s\n", input.Subject, input.To, err.Error())
		}
	}()
}
