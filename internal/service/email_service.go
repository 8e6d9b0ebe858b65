package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"theraplay/internal/models"
)

// EmailService sends report lifecycle notifications via Amazon SES to the
// clinic's review inbox. Implements ReportNotifier.
type EmailService struct {
	client      *sesv2.Client
	fromEmail   string
	fromName    string
	notifyEmail string
	appBaseURL  string
	enabled     bool
}

// NewEmailService creates a new email service. When fromEmail or notifyEmail
// is empty the service is created disabled and every send becomes a no-op.
func NewEmailService(awsRegion, fromEmail, fromName, notifyEmail, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" || notifyEmail == "" {
		log.Println("Email notifications disabled: SES_FROM_EMAIL or SES_NOTIFY_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email notifications enabled: from=%s, notify=%s, region=%s", fromEmail, notifyEmail, awsRegion)

	return &EmailService{
		client:      sesv2.NewFromConfig(cfg),
		fromEmail:   fromEmail,
		fromName:    fromName,
		notifyEmail: notifyEmail,
		appBaseURL:  appBaseURL,
		enabled:     true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// NotifyReportSubmitted tells the clinic inbox a new report awaits review
func (s *EmailService) NotifyReportSubmitted(ctx context.Context, report *models.PerformanceReport) error {
	if !s.enabled {
		return nil
	}

	reportLink := fmt.Sprintf("%s/reports/%s", s.appBaseURL, report.ID)
	subject := "New performance report awaiting review"

	textBody := fmt.Sprintf(`A new performance report has been submitted.

Report:   %s
Child:    %s
Doctor:   %s
Games:    %s

Review it here: %s

---
This is an automated email from TheraPlay. Please do not reply.
`, report.ID, report.ChildID, report.DoctorID, gameList(report.SelectedGames), reportLink)

	htmlBody := fmt.Sprintf(`<p>A new performance report has been submitted.</p>
<ul>
	<li>Report: %s</li>
	<li>Child: %s</li>
	<li>Doctor: %s</li>
	<li>Games: %s</li>
</ul>
<p><a href="%s">Review the report</a></p>
<p style="font-size: 12px; color: #666;">This is an automated email from TheraPlay. Please do not reply.</p>
`, report.ID, report.ChildID, report.DoctorID, gameList(report.SelectedGames), reportLink)

	return s.sendEmail(ctx, subject, htmlBody, textBody)
}

// NotifyReportReviewed tells the clinic inbox a report has been adjudicated
func (s *EmailService) NotifyReportReviewed(ctx context.Context, report *models.PerformanceReport) error {
	if !s.enabled {
		return nil
	}

	verdict := ""
	if report.Verdict != nil {
		verdict = string(*report.Verdict)
	}
	reportLink := fmt.Sprintf("%s/reports/%s", s.appBaseURL, report.ID)
	subject := "Performance report reviewed"

	textBody := fmt.Sprintf(`A performance report has been reviewed.

Report:   %s
Child:    %s
Verdict:  %s

Details: %s

---
This is an automated email from TheraPlay. Please do not reply.
`, report.ID, report.ChildID, verdict, reportLink)

	htmlBody := fmt.Sprintf(`<p>A performance report has been reviewed.</p>
<ul>
	<li>Report: %s</li>
	<li>Child: %s</li>
	<li>Verdict: %s</li>
</ul>
<p><a href="%s">View the report</a></p>
<p style="font-size: 12px; color: #666;">This is an automated email from TheraPlay. Please do not reply.</p>
`, report.ID, report.ChildID, verdict, reportLink)

	return s.sendEmail(ctx, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.notifyEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.notifyEmail, err)
	}

	log.Printf("Email sent: to=%s, subject=%s", s.notifyEmail, subject)
	return nil
}

func gameList(gameTypes []models.GameType) string {
	out := ""
	for i, gt := range gameTypes {
		if i > 0 {
			out += ", "
		}
		out += gt.DisplayName()
	}
	return out
}
