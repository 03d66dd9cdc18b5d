package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aeonark/aeonark-labs/config"
	"github.com/aeonark/aeonark-labs/internal/application"
	"github.com/aeonark/aeonark-labs/internal/domain/repository"
	"github.com/aeonark/aeonark-labs/pkg/helpers"
	"github.com/aeonark/aeonark-labs/pkg/mailer"
)

// Container holds the components built in main. It is passed explicitly to
// the router; nothing in here is global.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger

	// Store is the selected record store (postgres or memory).
	Store repository.Store
	// Redis is optional; rate limits are off without it.
	Redis *redis.Client

	JWT      *helpers.JWTManager
	Notifier mailer.Notifier

	// Optional lead sinks
	Rabbit *helpers.RabbitQueue
	ES     *elasticsearch.Client
	GCS    *storage.Client

	OTP      *application.OTPService
	Sessions *application.SessionService
	Users    *application.UserService
	Carts    *application.CartService
	Contact  *application.ContactService
	Leads    *application.LeadForwarder
}

// Build wires the application services from the infrastructure already set
// on c.
func (c *Container) Build() *Container {
	c.Leads = application.NewLeadForwarder(c.Cfg, c.Notifier, c.Logger)
	if c.Rabbit != nil {
		c.Leads.Queue = c.Rabbit
	}
	c.Leads.ES = c.ES
	if c.GCS != nil {
		c.Leads.GCS = c.GCS
		c.Leads.GCSBucket = c.Cfg.GCSBucket
	}

	c.OTP = application.NewOTPService(c.Store, c.Notifier, c.Cfg, c.Logger)
	c.Sessions = application.NewSessionService(c.Store.Users(), c.JWT, c.Logger)
	c.Users = application.NewUserService(c.Store.Users(), c.Leads, c.Logger)
	c.Carts = application.NewCartService(c.Store.Carts(), c.Store.Users(), c.Leads, c.Logger)
	c.Contact = application.NewContactService(c.Cfg, c.Notifier, c.Logger)
	return c
}

// Close releases the infrastructure clients.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}
