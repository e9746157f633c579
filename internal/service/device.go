package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/keyfold/syncengine/internal/config"
	"github.com/keyfold/syncengine/internal/logger"
	"github.com/keyfold/syncengine/internal/store"
	"github.com/keyfold/syncengine/models"
)

// sessionClaims are the payload of an issued session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"device_id"`
}

type deviceRegistry struct {
	devices store.DeviceRepository
	cfg     config.Sessions
	logger  *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewDeviceRegistry creates the device and session tracker. Device records
// are durable; sessions live only for the process lifetime.
func NewDeviceRegistry(devices store.DeviceRepository, cfg config.Sessions, log *logger.Logger) DeviceRegistry {
	return &deviceRegistry{
		devices:  devices,
		cfg:      cfg,
		logger:   log,
		sessions: make(map[string]*models.Session),
	}
}

func (r *deviceRegistry) Register(ctx context.Context, device models.Device) error {
	if device.LastSeen.IsZero() {
		device.LastSeen = time.Now().UTC()
	}

	if err := r.devices.Save(ctx, device); err != nil {
		return fmt.Errorf("save device %s: %w", device.ID, err)
	}

	r.logger.Info().
		Str("func", "deviceRegistry.Register").
		Str("device_id", device.ID).
		Str("platform", device.Platform).
		Bool("trusted", device.Trusted).
		Msg("device registered")

	return nil
}

func (r *deviceRegistry) Trust(ctx context.Context, id string) error {
	if err := r.devices.SetTrusted(ctx, id, true); err != nil {
		return fmt.Errorf("trust device %s: %w", id, err)
	}
	return nil
}

// Remove implements DeviceRegistry. Trust revocation and session
// invalidation happen together so no in-flight session outlives the
// device's authorization.
func (r *deviceRegistry) Remove(ctx context.Context, id string) error {
	if err := r.devices.SetTrusted(ctx, id, false); err != nil {
		return fmt.Errorf("revoke device %s: %w", id, err)
	}

	r.mu.Lock()
	dropped := 0
	for sessionID, session := range r.sessions {
		if session.DeviceID == id {
			delete(r.sessions, sessionID)
			dropped++
		}
	}
	r.mu.Unlock()

	r.logger.Info().
		Str("func", "deviceRegistry.Remove").
		Str("device_id", id).
		Int("sessions_dropped", dropped).
		Msg("device trust revoked")

	return nil
}

func (r *deviceRegistry) IsTrusted(ctx context.Context, id string) bool {
	device, err := r.devices.Get(ctx, id)
	if err != nil {
		return false
	}
	return device.Trusted
}

func (r *deviceRegistry) Devices(ctx context.Context) ([]models.Device, error) {
	devices, err := r.devices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

func (r *deviceRegistry) CreateSession(ctx context.Context, deviceID, userID string) (models.Session, error) {
	if !r.IsTrusted(ctx, deviceID) {
		return models.Session{}, fmt.Errorf("session for device %s: %w", deviceID, ErrAuthorizationRevoked)
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:           uuid.NewString(),
		DeviceID:     deviceID,
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
	}

	token, err := r.signToken(session, now)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign session token for device %s: %w", deviceID, err)
	}
	session.Token = token

	r.mu.Lock()
	r.sessions[session.ID] = &session
	r.mu.Unlock()

	if err = r.devices.Touch(ctx, deviceID, now); err != nil {
		r.logger.Err(err).
			Str("func", "deviceRegistry.CreateSession").
			Str("device_id", deviceID).
			Msg("failed to update device last-seen")
	}

	return session, nil
}

func (r *deviceRegistry) signToken(session models.Session, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.cfg.TokenDuration)),
		},
		DeviceID: session.DeviceID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.cfg.TokenSignKey))
}

func (r *deviceRegistry) UpdateSessionActivity(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[sessionID]; ok {
		session.LastActivity = time.Now().UTC()
	}
}

// PruneIdle drops sessions idle past the configured threshold and returns
// how many were removed. Device records stay so the device can reconnect.
func (r *deviceRegistry) PruneIdle(now time.Time) int {
	idle := r.cfg.IdleTimeout
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for sessionID, session := range r.sessions {
		if now.Sub(session.LastActivity) > idle {
			delete(r.sessions, sessionID)
			pruned++
		}
	}

	if pruned > 0 {
		r.logger.Debug().
			Str("func", "deviceRegistry.PruneIdle").
			Int("pruned", pruned).
			Msg("idle sessions dropped")
	}

	return pruned
}

func (r *deviceRegistry) ActiveSessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
