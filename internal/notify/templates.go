package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SubjectWelcome  = "Welcome to Traveleo ✈️"
	SubjectLoginOTP = "Your Traveleo Login OTP 🔐"
	SubjectReminder = "Upcoming Trip Reminder ✈️"
)

var (
	welcomeTmpl  = mustParse("welcome.html")
	otpTmpl      = mustParse("otp.html")
	reminderTmpl = mustParse("reminder.html")
)

func mustParse(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// TripSummary is the trip shown in a reminder mail.
type TripSummary struct {
	Title       string
	Destination string
	StartDate   string
}

type mailData struct {
	Name     string
	Code     string
	ValidFor string
	Trip     TripSummary
	Year     int
}

func render(t *template.Template, data mailData) (string, error) {
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func WelcomeMessage(to, name string) (Message, error) {
	html, err := render(welcomeTmpl, mailData{Name: name})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectWelcome, HTML: html}, nil
}

func LoginOTPMessage(to, name, code string, ttl time.Duration) (Message, error) {
	html, err := render(otpTmpl, mailData{Name: name, Code: code, ValidFor: humanizeTTL(ttl)})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectLoginOTP, HTML: html}, nil
}

func TripReminderMessage(to, name string, trip TripSummary) (Message, error) {
	html, err := render(reminderTmpl, mailData{Name: name, Trip: trip})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectReminder, HTML: html}, nil
}

// humanizeTTL renders whole minutes as "5 minutes", anything else as a
// Go duration.
func humanizeTTL(ttl time.Duration) string {
	switch {
	case ttl == time.Minute:
		return "1 minute"
	case ttl > 0 && ttl%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(ttl/time.Minute))
	default:
		return ttl.String()
	}
}
