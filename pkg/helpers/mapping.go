package helpers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aeonark/aeonark-labs/pkg/mailer"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
)

var ErrUnknownTemplate = errors.New("unknown email template")

var queuedTemplates = map[string]bool{
	mailtpl.OnboardingLead: true,
	mailtpl.CartLead:       true,
	mailtpl.ContactMessage: true,
}

// NewTemplateJob builds a queue job that the email worker renders and sends.
func NewTemplateJob(to, template string, data map[string]any) mailer.EmailJob {
	return mailer.EmailJob{To: to, Template: template, Data: data, QueuedAt: time.Now().UTC()}
}

// PrepareJob normalizes a job taken off the queue before rendering.
// Jobs carrying a pre-rendered body pass through untouched.
func PrepareJob(job *mailer.EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return errors.New("email job has no recipient")
	}
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return errors.New("email job has neither template nor body")
		}
		return nil
	}
	job.Template = strings.ToLower(job.Template)
	if !queuedTemplates[job.Template] {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, job.Template)
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
	return nil
}
