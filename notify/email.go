// Package notify delivers payoff plans by e-mail.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"gullak/config"
	"gullak/domain"
	"gullak/report"
)

// ErrNotConfigured is returned when SMTP settings are missing.
var ErrNotConfigured = errors.New("smtp is not configured")

// PlanMailer sends payoff plans over SMTP with the XML report attached.
type PlanMailer struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewPlanMailer creates a new plan mailer.
func NewPlanMailer(cfg *config.Config, logger *logrus.Logger) *PlanMailer {
	return &PlanMailer{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendPlan e-mails the summary to the recipient.
func (m *PlanMailer) SendPlan(ctx context.Context, to string, summary domain.OptimizationSummary) error {
	if !m.cfg.SMTPConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your debt payoff plan: debt free in %s", yearsMonths(summary.Optimized.TotalDurationMonths))
	e.Text = []byte(planBody(summary))

	xml, err := report.XML(summary)
	if err != nil {
		return fmt.Errorf("failed to render plan report: %w", err)
	}
	if _, err := e.Attach(bytes.NewReader(xml), "payoff-plan.xml", "application/xml"); err != nil {
		return fmt.Errorf("failed to attach plan report: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}
	if err := m.send(e, addr, auth); err != nil {
		m.logger.Errorf("Failed to send payoff plan to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Infof("Payoff plan sent to %s", to)
	return nil
}

func yearsMonths(months int) string {
	years, rem := months/12, months%12
	if years == 0 {
		return fmt.Sprintf("%d months", rem)
	}
	if rem == 0 {
		return fmt.Sprintf("%d years", years)
	}
	return fmt.Sprintf("%d years %d months", years, rem)
}

func planBody(summary domain.OptimizationSummary) string {
	var b strings.Builder

	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "Strategy: %s\n", summary.Strategy)
	fmt.Fprintf(&b, "Paying only EMIs: %s, total interest %.2f\n",
		yearsMonths(summary.Baseline.TotalDurationMonths), summary.Baseline.TotalInterestAccrued)
	fmt.Fprintf(&b, "With your extra payment: %s, total interest %.2f\n",
		yearsMonths(summary.Optimized.TotalDurationMonths), summary.Optimized.TotalInterestAccrued)
	fmt.Fprintf(&b, "You save %.2f in interest and %d months.\n", summary.InterestSaved, summary.MonthsSaved)

	if len(summary.Optimized.Timeline) > 0 {
		b.WriteString("\nPayoff order:\n")
		for i, e := range summary.Optimized.Timeline {
			fmt.Fprintf(&b, "  %d. %s in month %d (%s)\n", i+1, e.LoanName, e.Month, yearsMonths(e.Month))
		}
	}
	if !summary.Optimized.Amortizes {
		b.WriteString("\nSome loans are not paid off within the projection horizon at the current payments.\n")
	}
	if summary.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", summary.Explanation)
	}

	b.WriteString("\nBest regards,\nGullak")
	return b.String()
}
