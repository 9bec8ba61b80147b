package mail

import (
	mailevent "gitlab.com/arcadia-gg/accounts-backend/internal/application/mail/event"
)

type App struct {
	Event *mailevent.MailEventHandler
}

type Args struct {
	Mailsender       mailevent.MailSender
	ResetLinkBaseURL string
}

func NewApp(args Args) *App {
	return &App{
		Event: mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
			Mailsender:       args.Mailsender,
			ResetLinkBaseURL: args.ResetLinkBaseURL,
		}),
	}
}
