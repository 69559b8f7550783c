package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"lab-booking/pkg/utils"
)

// EmailSender turns notification trigger events into customer emails.
type EmailSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewEmailSender(config utils.EmailConfig) *EmailSender {
	return &EmailSender{
		host: config.Host,
		port: config.Port,
		user: config.User,
		pass: config.Password,
		from: config.From,
	}
}

func (s *EmailSender) Send(event Event) error {
	if event.PatientEmail == "" {
		return nil
	}

	subject, body := composeEmail(event)

	message := fmt.Sprintf("From: %s\r\n", s.from)
	message += fmt.Sprintf("To: %s\r\n", event.PatientEmail)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "\r\n" + body

	var auth smtp.Auth
	if s.user != "" && s.pass != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{event.PatientEmail}, []byte(message))
}

func composeEmail(event Event) (subject, body string) {
	switch event.Kind {
	case KindBookingCreated:
		subject = "Booking Scheduled - " + event.BookingNumber
		body = fmt.Sprintf(`Hi %s,

Your lab test booking is scheduled.

Booking number: %s
Test: %s
Collection: %s (%s)
Amount: %.2f

We will confirm your slot shortly.`,
			event.PatientName, event.BookingNumber, event.SubjectName,
			event.CollectionDate.Format("Jan 2, 2006"), event.CollectionSlot, event.FinalAmount)

	case KindBookingConfirmed:
		subject = "Booking Confirmed - " + event.BookingNumber
		body = fmt.Sprintf(`Hi %s,

Your booking %s is confirmed.

Test: %s
Collection: %s (%s)

Please keep your prescription handy if one is required.`,
			event.PatientName, event.BookingNumber, event.SubjectName,
			event.CollectionDate.Format("Jan 2, 2006"), event.CollectionSlot)

	case KindSampleCollected:
		subject = "Sample Collected - " + event.BookingNumber
		body = fmt.Sprintf(`Hi %s,

The sample for booking %s has been collected and is on its way to the lab.

We will notify you once your report is ready.`,
			event.PatientName, event.BookingNumber)

	case KindReportReady:
		subject = "Report Ready - " + event.BookingNumber
		body = fmt.Sprintf(`Hi %s,

Your report for booking %s is ready.

Download: %s`,
			event.PatientName, event.BookingNumber, strings.Join(event.ReportURLs, "\n"))

	case KindBookingCancelled:
		subject = "Booking Cancelled - " + event.BookingNumber
		body = fmt.Sprintf(`Hi %s,

Your booking %s has been cancelled.

Refund amount: %.2f`,
			event.PatientName, event.BookingNumber, event.RefundAmount)

	default:
		subject = "Booking Update - " + event.BookingNumber
		body = fmt.Sprintf("Hi %s,\n\nYour booking %s is now %s.",
			event.PatientName, event.BookingNumber, event.Status)
	}

	return subject, body
}
