package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

type IMailService interface {
	SendOneTimeCode(to, code string) error
	SendWelcome(to, name string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     int    // e.g. 587 (STARTTLS)
	Username string
	Password string
	From     string // envelope from, e.g. "no-reply@musegen.app"
	FromName string
	AppName  string
}

type smtpMailService struct {
	cfg SMTPConfig
	tpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	tpl := template.Must(template.New("mail").Parse(mailHTMLTemplate))
	return &smtpMailService{cfg: cfg, tpl: tpl}, nil
}

type mailData struct {
	Title   string
	Intro   string
	Code    string
	AppName string
	Year    int
}

func (s *smtpMailService) SendOneTimeCode(to, code string) error {
	return s.send(to, "Your sign-in code", mailData{
		Title:   "Your sign-in code",
		Intro:   "Use the code below to sign in. It expires in 10 minutes. If you didn't request it, you can safely ignore this email.",
		Code:    code,
		AppName: s.cfg.AppName,
		Year:    time.Now().Year(),
	})
}

func (s *smtpMailService) SendWelcome(to, name string) error {
	intro := "Your account is ready. Head back to the app to start generating."
	if name != "" {
		intro = "Hi " + name + ", your account is ready. Head back to the app to start generating."
	}
	return s.send(to, "Welcome to "+s.cfg.AppName, mailData{
		Title:   "Welcome!",
		Intro:   intro,
		AppName: s.cfg.AppName,
		Year:    time.Now().Year(),
	})
}

func (s *smtpMailService) send(to, subject string, data mailData) error {
	var body bytes.Buffer
	if err := s.tpl.Execute(&body, data); err != nil {
		return err
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg.Bytes())
}

const mailHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:24px;background:#0f172a;color:#ffffff;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
  <div style="max-width:480px;margin:0 auto;background:#1e293b;border-radius:12px;padding:32px;">
    <h1 style="margin-top:0;font-size:20px;">{{.Title}}</h1>
    <p style="line-height:1.6;color:#cbd5e1;">{{.Intro}}</p>
    {{if .Code}}
    <p style="font-size:32px;letter-spacing:8px;text-align:center;font-weight:700;margin:24px 0;">{{.Code}}</p>
    {{end}}
    <p style="color:#64748b;font-size:12px;margin-bottom:0;">&copy; {{.Year}} {{.AppName}}</p>
  </div>
</body>
</html>`
