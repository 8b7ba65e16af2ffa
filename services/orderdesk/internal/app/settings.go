package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/router"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/socket"
	"github.com/go-playground/validator/v10"
)

// Config is the part of apt.Config the desk reads.
type Config interface {
	GetStringOrDef(key, def string) string
}

type Settings struct {
	OrdersURL string `validate:"required,url"`

	Transport       string `validate:"oneof=socket nats"`
	SocketURL       string `validate:"required_if=Transport socket"`
	SocketReconnect time.Duration
	NATSURL         string `validate:"required_if=Transport nats"`
	NATSPrefix      string
	StreamEnabled   bool
	StreamName      string `validate:"required_if=StreamEnabled true"`

	UserID       string `validate:"required"`
	Role         string `validate:"oneof=admin branch production chef"`
	BranchID     string `validate:"required_if=Role branch"`
	ChefID       string `validate:"required_if=Role chef"`
	DepartmentID string
	Locale       string

	Variant  string `validate:"oneof=branch factory"`
	PageSize int    `validate:"gte=0"`

	RetryAttempts int `validate:"gte=1"`
	RetryDelay    time.Duration
	RedisURL      string
	CacheTTL      time.Duration
}

// LoadSettings reads and validates the desk configuration.
func LoadSettings(cfg Config) (Settings, error) {
	var err error
	s := Settings{
		OrdersURL:    cfg.GetStringOrDef("services.orders.url", ""),
		Transport:    cfg.GetStringOrDef("channel.transport", "socket"),
		SocketURL:    cfg.GetStringOrDef("socket.url", ""),
		NATSURL:      cfg.GetStringOrDef("nats.url", "nats://localhost:4222"),
		NATSPrefix:   cfg.GetStringOrDef("nats.prefix", event.EventsTopic),
		StreamName:   cfg.GetStringOrDef("nats.stream.name", "ORDERDESK"),
		UserID:       cfg.GetStringOrDef("viewer.user_id", ""),
		Role:         cfg.GetStringOrDef("viewer.role", string(router.RoleAdmin)),
		BranchID:     cfg.GetStringOrDef("viewer.branch_id", ""),
		ChefID:       cfg.GetStringOrDef("viewer.chef_id", ""),
		DepartmentID: cfg.GetStringOrDef("viewer.department_id", ""),
		Locale:       cfg.GetStringOrDef("viewer.locale", "ar"),
		Variant:      cfg.GetStringOrDef("store.variant", string(orders.VariantBranch)),
		RedisURL:     cfg.GetStringOrDef("cache.redis.addr", ""),
	}

	if s.StreamEnabled, err = parseBool(cfg, "nats.stream.enabled", false); err != nil {
		return Settings{}, err
	}
	if s.SocketReconnect, err = parseDuration(cfg, "socket.reconnect", socket.DefaultReconnectInterval); err != nil {
		return Settings{}, err
	}
	if s.RetryDelay, err = parseDuration(cfg, "rest.retry.delay", restapi.DefaultRetryDelay); err != nil {
		return Settings{}, err
	}
	if s.CacheTTL, err = parseDuration(cfg, "cache.ttl", restapi.DefaultTaskTTL); err != nil {
		return Settings{}, err
	}
	if s.PageSize, err = parseInt(cfg, "store.page_size", orders.DefaultPageSize); err != nil {
		return Settings{}, err
	}
	if s.RetryAttempts, err = parseInt(cfg, "rest.retry.attempts", restapi.DefaultRetryAttempts); err != nil {
		return Settings{}, err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func (s Settings) Viewer() router.Viewer {
	return router.Viewer{
		UserID:       s.UserID,
		Role:         router.Role(s.Role),
		BranchID:     s.BranchID,
		ChefID:       s.ChefID,
		DepartmentID: s.DepartmentID,
		Lang:         orders.ParseLang(s.Locale),
	}
}

func parseDuration(cfg Config, key string, def time.Duration) (time.Duration, error) {
	raw := cfg.GetStringOrDef(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(cfg Config, key string, def int) (int, error) {
	raw := cfg.GetStringOrDef(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseBool(cfg Config, key string, def bool) (bool, error) {
	raw := cfg.GetStringOrDef(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
