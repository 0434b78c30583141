package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"shopnow/internal/models"
)

// NotificationCapability is the external permission surface. Supported
// reports whether the capability exists at all; RequestPermission blocks
// until the user decides (possibly forever, bounded only by ctx).
type NotificationCapability interface {
	Supported() bool
	RequestPermission(ctx context.Context) (models.PermissionState, error)
}

// NotificationService tracks per-session permission state and the
// visibility of the opt-in prompt.
type NotificationService struct {
	mu         sync.RWMutex
	capability NotificationCapability
	states     map[string]models.PermissionState // session_id -> decided state
	dismissed  map[string]bool
	logger     *zap.Logger
}

func NewNotificationService(capability NotificationCapability, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		capability: capability,
		states:     make(map[string]models.PermissionState),
		dismissed:  make(map[string]bool),
		logger:     logger,
	}
}

// PermissionState returns the session's current state. Unsupported wins
// over everything; otherwise default until a request resolves.
func (s *NotificationService) PermissionState(sessionID string) models.PermissionState {
	if !s.capability.Supported() {
		return models.PermissionUnsupported
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, ok := s.states[sessionID]; ok {
		return state
	}
	return models.PermissionDefault
}

// PromptVisible reports whether the opt-in prompt should be shown: only
// while the capability is supported, the permission is undecided, and the
// user has not dismissed it.
func (s *NotificationService) PromptVisible(sessionID string) bool {
	if s.PermissionState(sessionID) != models.PermissionDefault {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.dismissed[sessionID]
}

// Dismiss hides the prompt without requesting permission ("Not now").
func (s *NotificationService) Dismiss(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[sessionID] = true
}

// RequestPermission runs the capability request and maps every outcome,
// including failure, to a non-fatal result. The prompt is hidden
// regardless of how the request resolves.
func (s *NotificationService) RequestPermission(ctx context.Context, sessionID string) models.PermissionResult {
	defer s.Dismiss(sessionID)

	if !s.capability.Supported() {
		return models.PermissionResult{
			Outcome: models.OutcomeError,
			Message: "Could not enable notifications",
		}
	}

	state, err := s.capability.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn("notification permission request failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return models.PermissionResult{
			Outcome: models.OutcomeError,
			Message: "Could not enable notifications",
		}
	}

	s.mu.Lock()
	s.states[sessionID] = state
	s.mu.Unlock()

	if state == models.PermissionGranted {
		return models.PermissionResult{
			Outcome: models.OutcomeGranted,
			Message: "Notifications enabled! You'll get updates on new products and offers.",
		}
	}
	return models.PermissionResult{
		Outcome: models.OutcomeDenied,
		Message: "Notification permission denied",
	}
}

// staticCapability simulates a browser that always resolves permission
// requests with a fixed decision. Used when no real capability is wired.
type staticCapability struct {
	supported bool
	decision  models.PermissionState
}

func NewStaticCapability(supported bool, decision models.PermissionState) NotificationCapability {
	return &staticCapability{supported: supported, decision: decision}
}

func (c *staticCapability) Supported() bool {
	return c.supported
}

func (c *staticCapability) RequestPermission(ctx context.Context) (models.PermissionState, error) {
	select {
	case <-ctx.Done():
		return models.PermissionDefault, ctx.Err()
	default:
	}

	switch c.decision {
	case models.PermissionGranted, models.PermissionDenied:
		return c.decision, nil
	default:
		return models.PermissionDefault, fmt.Errorf("permission request rejected: %s", c.decision)
	}
}
