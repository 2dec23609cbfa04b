package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
)

// Setting keys.
const (
	KeyLockDuration     = "lock_duration_minutes"
	KeyMaxNumber        = "max_number"
	KeySitePassword     = "site_password"
	KeyIPWhitelist      = "ip_whitelist"
	KeyWhitelistEnabled = "ip_whitelist_enabled"
)

const (
	DefaultLockMinutes = 30
	MaxLockMinutes     = 1440
	DefaultMaxNumber   = 1000
	MaxMaxNumber       = 10000
)

var (
	ErrLockOutOfRange      = errors.New("lock duration must be between 0 and 1440 minutes")
	ErrMaxNumberOutOfRange = errors.New("max number must be between 1 and 10000")
)

// InvalidIPError names the first whitelist entry that is not an IP address.
type InvalidIPError struct {
	IP string
}

func (e *InvalidIPError) Error() string {
	return "invalid IP address: " + e.IP
}

type store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Service reads and writes site-wide settings. Nothing is cached: every
// read goes to the store so admin edits take effect on the next request.
type Service struct {
	store               store
	defaultSitePassword string
	logger              zerolog.Logger
}

func NewService(store store, defaultSitePassword string, logger zerolog.Logger) *Service {
	return &Service{
		store:               store,
		defaultSitePassword: defaultSitePassword,
		logger:              logger.With().Str("component", "settings").Logger(),
	}
}

// LockDurationMinutes falls back to 30 when the value is missing or not an integer.
func (s *Service) LockDurationMinutes(ctx context.Context) (int, error) {
	return s.intSetting(ctx, KeyLockDuration, DefaultLockMinutes)
}

func (s *Service) MaxNumber(ctx context.Context) (int, error) {
	return s.intSetting(ctx, KeyMaxNumber, DefaultMaxNumber)
}

func (s *Service) intSetting(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Warn().Str("key", key).Str("value", raw).Msg("unparsable integer setting, using default")
		return def, nil
	}
	return n, nil
}

// VerifySitePassword compares against the stored hash, seeding the hash
// from the configured default the first time it is missing.
func (s *Service) VerifySitePassword(ctx context.Context, password string) (bool, error) {
	hash, ok, err := s.store.Get(ctx, KeySitePassword)
	if err != nil {
		return false, fmt.Errorf("read site password: %w", err)
	}
	if !ok || hash == "" {
		if s.defaultSitePassword == "" {
			return false, nil
		}
		if err := s.SetSitePassword(ctx, s.defaultSitePassword); err != nil {
			return false, err
		}
		s.logger.Info().Msg("site password seeded from default")
		return password == s.defaultSitePassword, nil
	}
	return CheckPassword(hash, password), nil
}

func (s *Service) SetSitePassword(ctx context.Context, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeySitePassword, hash)
}

// IPWhitelist returns an empty list when the stored value is missing or malformed.
func (s *Service) IPWhitelist(ctx context.Context) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, KeyIPWhitelist)
	if err != nil {
		return nil, fmt.Errorf("read ip whitelist: %w", err)
	}
	if !ok {
		return []string{}, nil
	}
	var ips []string
	if err := json.Unmarshal([]byte(raw), &ips); err != nil {
		s.logger.Warn().Err(err).Msg("malformed ip whitelist, treating as empty")
		return []string{}, nil
	}
	return ips, nil
}

func (s *Service) WhitelistEnabled(ctx context.Context) (bool, error) {
	raw, _, err := s.store.Get(ctx, KeyWhitelistEnabled)
	if err != nil {
		return false, fmt.Errorf("read ip whitelist flag: %w", err)
	}
	return raw == "true", nil
}

// IPAllowed is true only when the whitelist is enabled and contains ip.
func (s *Service) IPAllowed(ctx context.Context, ip string) (bool, error) {
	enabled, err := s.WhitelistEnabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	ips, err := s.IPWhitelist(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ips, ip), nil
}

// View is the admin-facing settings snapshot. The site password is never returned.
type View struct {
	LockDurationMinutes int      `json:"lock_duration_minutes"`
	MaxNumber           int      `json:"max_number"`
	IPWhitelist         []string `json:"ip_whitelist"`
	IPWhitelistEnabled  bool     `json:"ip_whitelist_enabled"`
}

func (s *Service) View(ctx context.Context) (View, error) {
	lock, err := s.LockDurationMinutes(ctx)
	if err != nil {
		return View{}, err
	}
	maxNumber, err := s.MaxNumber(ctx)
	if err != nil {
		return View{}, err
	}
	ips, err := s.IPWhitelist(ctx)
	if err != nil {
		return View{}, err
	}
	enabled, err := s.WhitelistEnabled(ctx)
	if err != nil {
		return View{}, err
	}
	return View{
		LockDurationMinutes: lock,
		MaxNumber:           maxNumber,
		IPWhitelist:         ips,
		IPWhitelistEnabled:  enabled,
	}, nil
}

// Update carries an admin edit. Nil fields are left unchanged.
type Update struct {
	LockDurationMinutes *int      `json:"lock_duration_minutes"`
	MaxNumber           *int      `json:"max_number"`
	SitePassword        *string   `json:"site_password"`
	IPWhitelist         *[]string `json:"ip_whitelist"`
	IPWhitelistEnabled  *bool     `json:"ip_whitelist_enabled"`
}

// Validate checks every present field without writing anything.
func (u Update) Validate() error {
	if u.LockDurationMinutes != nil && (*u.LockDurationMinutes < 0 || *u.LockDurationMinutes > MaxLockMinutes) {
		return ErrLockOutOfRange
	}
	if u.MaxNumber != nil && (*u.MaxNumber < 1 || *u.MaxNumber > MaxMaxNumber) {
		return ErrMaxNumberOutOfRange
	}
	if u.SitePassword != nil && *u.SitePassword == "" {
		return ErrEmptyPassword
	}
	if u.IPWhitelist != nil {
		if err := ValidateIPs(*u.IPWhitelist); err != nil {
			return err
		}
	}
	return nil
}

// Apply validates the whole update first, then writes each present field.
func (s *Service) Apply(ctx context.Context, u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.LockDurationMinutes != nil {
		if err := s.store.Set(ctx, KeyLockDuration, strconv.Itoa(*u.LockDurationMinutes)); err != nil {
			return err
		}
	}
	if u.MaxNumber != nil {
		if err := s.store.Set(ctx, KeyMaxNumber, strconv.Itoa(*u.MaxNumber)); err != nil {
			return err
		}
	}
	if u.SitePassword != nil {
		if err := s.SetSitePassword(ctx, *u.SitePassword); err != nil {
			return err
		}
	}
	if u.IPWhitelist != nil {
		raw, err := json.Marshal(*u.IPWhitelist)
		if err != nil {
			return err
		}
		if err := s.store.Set(ctx, KeyIPWhitelist, string(raw)); err != nil {
			return err
		}
	}
	if u.IPWhitelistEnabled != nil {
		if err := s.store.Set(ctx, KeyWhitelistEnabled, strconv.FormatBool(*u.IPWhitelistEnabled)); err != nil {
			return err
		}
	}
	s.logger.Info().Msg("settings updated")
	return nil
}

// ValidateIPs accepts IPv4 and IPv6 literals only.
func ValidateIPs(ips []string) error {
	for _, ip := range ips {
		if net.ParseIP(ip) == nil {
			return &InvalidIPError{IP: ip}
		}
	}
	return nil
}
