package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/leadline/prospect-sync/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

func NewReportSender(host string, port int, user, password, from, to string) *ReportSender {
	return &ReportSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// SendSyncReport mails the operator a summary of one finished sync run.
func (s *ReportSender) SendSyncReport(report queue.SyncReport) error {
	data := SyncReportEmailData{
		RunID:       report.RunID,
		CampaignID:  report.CampaignID,
		Synced:      report.Synced,
		Inserted:    report.Inserted,
		Updated:     report.Updated,
		SoftDeleted: report.SoftDeleted,
		Failed:      report.Failed,
	}

	tmplPath := filepath.Join("templates", "sync_report.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("read report template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("render report template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Campaign sync report (run %s)", report.RunID))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}

	return nil
}
