package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/domain/entity"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
	mailtpl "github.com/aeonark/aeonark-labs/pkg/mailer/templates"
)

// JobPublisher puts an email job on a queue. *helpers.RabbitQueue satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// LeadForwarder tells the operator about onboarding and cart submissions.
// Every sink is optional and every failure is logged, never returned: the
// user's own write has already been committed when forwarding runs.
type LeadForwarder struct {
	Cfg       *config.Config
	Notifier  mailer.Notifier
	Queue     JobPublisher
	ES        *elasticsearch.Client
	ESIndex   string
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Now       func() time.Time
	Timeout   time.Duration
}

func NewLeadForwarder(cfg *config.Config, notifier mailer.Notifier, logger *logrus.Logger) *LeadForwarder {
	return &LeadForwarder{
		Cfg:      cfg,
		Notifier: notifier,
		ESIndex:  cfg.ESLeadsIndex,
		Logger:   logger,
		Now:      time.Now,
		Timeout:  cfg.NotifierTimeout,
	}
}

// Onboarded forwards a completed questionnaire.
func (f *LeadForwarder) Onboarded(ctx context.Context, u *entity.User, meta RequestMeta) {
	if f == nil {
		return
	}
	ctx, cancel := f.detach(ctx)
	defer cancel()

	now := f.Now()
	data := mailtpl.NewLeadData(f.Cfg, mailtpl.OnboardingLead, u.FullName, u.Email,
		mailtpl.WithProfile(u.ID, u.Company, string(u.PrimaryGoal), u.BuildGoal),
		mailtpl.WithTime(now),
		mailtpl.WithIP(meta.IP),
		mailtpl.WithUserAgent(meta.UserAgent),
	)
	f.notify(ctx, mailtpl.OnboardingLead, data)
	f.index(ctx, u)
	f.archive(ctx, "onboarding", u.ID, now, map[string]any{"user": leadDoc(u)})
}

// CartSaved forwards a plan selection with its total.
func (f *LeadForwarder) CartSaved(ctx context.Context, u *entity.User, c *entity.CartItem, meta RequestMeta) {
	if f == nil {
		return
	}
	ctx, cancel := f.detach(ctx)
	defer cancel()

	items := make([]mailtpl.LineItem, 0, len(c.AddOns))
	for _, a := range c.AddOns {
		if a.Selected {
			items = append(items, mailtpl.LineItem{Name: a.Name, Price: a.Price})
		}
	}
	now := f.Now()
	data := mailtpl.NewLeadData(f.Cfg, mailtpl.CartLead, u.FullName, u.Email,
		mailtpl.WithCart(c.PlanName, items, c.Total()),
		mailtpl.WithTime(now),
		mailtpl.WithIP(meta.IP),
	)
	f.notify(ctx, mailtpl.CartLead, data)
	f.archive(ctx, "cart", u.ID, now, map[string]any{
		"user": leadDoc(u),
		"cart": map[string]any{
			"planType": c.PlanType,
			"planName": c.PlanName,
			"addOns":   c.AddOns,
			"total":    c.Total(),
		},
	})
}

// detach keeps forwarding alive when the client goes away after its write.
func (f *LeadForwarder) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func (f *LeadForwarder) notify(ctx context.Context, template string, data map[string]any) {
	to := f.Cfg.OperatorEmail
	if to == "" {
		f.Logger.WithField("template", template).Debug("operator email not configured, lead not mailed")
		return
	}
	log := f.Logger.WithFields(logrus.Fields{"template": template, "lead": data["Email"]})

	if f.Queue != nil {
		err := f.Queue.PublishJSON(ctx, helpers.NewTemplateJob(to, template, data))
		if err == nil {
			return
		}
		log.WithError(err).Warn("publish lead email failed, sending directly")
	}
	subject, text, html, err := mailtpl.Render(template, data)
	if err != nil {
		log.WithError(err).Warn("render lead email failed")
		return
	}
	if err := f.Notifier.Send(ctx, to, subject, text, html); err != nil {
		log.WithError(err).Warn("send lead email failed")
	}
}

// LeadIndexMapping is the mapping used when the leads index is created.
const LeadIndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "email":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "full_name":    {"type": "text"},
      "company":      {"type": "text"},
      "primary_goal": {"type": "keyword"},
      "build_goal":   {"type": "text"},
      "is_onboarded": {"type": "boolean"},
      "created_at":   {"type": "date"},
      "updated_at":   {"type": "date"}
    }
  }
}`

func leadDoc(u *entity.User) map[string]any {
	return map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"full_name":    u.FullName,
		"company":      u.Company,
		"primary_goal": string(u.PrimaryGoal),
		"build_goal":   u.BuildGoal,
		"is_onboarded": u.IsOnboarded,
		"created_at":   u.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":   u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (f *LeadForwarder) index(ctx context.Context, u *entity.User) {
	if f.ES == nil || f.ESIndex == "" {
		return
	}
	b, _ := json.Marshal(leadDoc(u))
	req := esapi.IndexRequest{Index: f.ESIndex, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(ctx, f.ES)
	if err != nil {
		f.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		f.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (f *LeadForwarder) archive(ctx context.Context, kind, userID string, at time.Time, snapshot map[string]any) {
	if f.GCS == nil || f.GCSBucket == "" {
		return
	}
	objectPath := fmt.Sprintf("leads/%s/%s-%d.json", userID, kind, at.Unix())
	url, err := helpers.PutJSON(ctx, f.GCS, f.GCSBucket, objectPath, snapshot)
	if err != nil {
		f.Logger.WithError(err).WithField("object", objectPath).Warn("lead archive upload failed")
		return
	}
	f.Logger.WithField("object", url).Debug("lead archived")
}

// SearchLeads performs a simple multi_match search over indexed leads.
func (f *LeadForwarder) SearchLeads(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if f.ES == nil || f.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "full_name", "company", "build_goal"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := f.ES.Search(f.ES.Search.WithContext(c), f.ES.Search.WithIndex(f.ESIndex), f.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
