// Package mail provides authcore.Mailer implementations.
//
// [SMTPMailer] delivers over plain-auth SMTP for production use.
// [LogMailer] writes the message to a structured logger and is meant for
// development, where outbound mail is unwanted but the links still need
// to be visible.
package mail
