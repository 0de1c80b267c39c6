package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrMissingID is returned when a link is attempted with an empty id.
var ErrMissingID = errors.New("user id and resource id are required")

// Store records which assistants and phone numbers each user owns. Linking
// the same pair twice is a no-op. Lists are sorted by id.
type Store interface {
	LinkAssistant(ctx context.Context, userID, assistantID string) error
	UnlinkAssistant(ctx context.Context, assistantID string) error
	ListAssistantIDs(ctx context.Context, userID string) ([]string, error)
	LinkPhone(ctx context.Context, userID, phoneID string) error
	ListPhoneIDs(ctx context.Context, userID string) ([]string, error)
	TruncateAll(ctx context.Context) error
	Close() error
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Mode {
	case ModeLocal, ModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	case ModeSQLite:
		return OpenSQLite(cfg.SQLitePath, logger)
	default:
		logger.Info().Msg("ownership store kept in memory (STORE_MODE=memory)")
		return NewMemoryStore(), nil
	}
}
