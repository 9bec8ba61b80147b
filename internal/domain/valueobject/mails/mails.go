package mails

// Payload is a single outbound email.
type Payload struct {
	To      string
	Subject string
	Body    string
}
