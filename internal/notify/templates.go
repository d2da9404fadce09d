package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	GuestBookingSubject = "Your Appointment Booked Successfully"
	HostBookingSubject  = "New Appointment Booked"
)

var guestBookingTmpl = template.Must(template.New("guest").Parse(`
<h2>Thanks For Choosing Care Connect</h2>
<h4>Your Online Appointment Booking Details</h4>
<p>Booking ID: {{.BookingID}}</p>
<p>Transaction ID: {{.TransactionID}}</p>
<p>Thank you for booking with care connect. Your appointment details:</p>
<p>Meeting Link will be sent after reviewed by the doctor.</p>
<p>We look forward to seeing you at your appointment on time!</p>
<p>Best regards,<br>Care Connect Team</p>
`))

var hostBookingTmpl = template.Must(template.New("host").Parse(`
<h2>New Appointment Booked</h2>
<p>Booking ID: {{.BookingID}}</p>
<p>Transaction ID: {{.TransactionID}}</p>
<p>New appointment booked with you. Please review the details:</p>
<p>Meeting Link: <a href="{{.MeetingLink}}" target="_blank">{{.MeetingLink}}</a></p>
<p>Be prepared for the appointment and confirm it one hour before.</p>
<p>Best regards,<br>Care Connect Team</p>
`))

// BookingDetails feeds the booking confirmation templates.
type BookingDetails struct {
	BookingID     string
	TransactionID string
	GuestEmail    string
	HostEmail     string
	MeetingLink   string
}

// BookingNotices renders the guest and host confirmations, in that order.
func BookingNotices(d BookingDetails) ([]Notice, error) {
	guest, err := render(guestBookingTmpl, d)
	if err != nil {
		return nil, err
	}
	host, err := render(hostBookingTmpl, d)
	if err != nil {
		return nil, err
	}
	return []Notice{
		{To: d.GuestEmail, Subject: GuestBookingSubject, HTML: guest},
		{To: d.HostEmail, Subject: HostBookingSubject, HTML: host},
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
