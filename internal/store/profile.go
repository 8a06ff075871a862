package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tiller/internal/types"
)

// ProfileStore persists the assistant role per user and serves as the
// execution gate's RoleSource. Reads go to the database (the single source
// of truth) every time, so a committed promotion is visible to the very
// next permission check.
type ProfileStore struct {
	db     *DB
	userID string
}

// Profiles returns the role store scoped to one user.
func (d *DB) Profiles(userID string) *ProfileStore {
	return &ProfileStore{db: d, userID: userID}
}

// CurrentRole implements gate.RoleSource. A user with no stored profile is
// unresolved, not an error: the gate's configured policy decides what that
// means.
func (p *ProfileStore) CurrentRole(ctx context.Context) (types.AssistantRole, bool, error) {
	var raw string
	err := p.db.db.QueryRowContext(ctx,
		`SELECT role FROM profiles WHERE user_id = ?`, p.userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read role: %w", err)
	}
	return types.ParseAssistantRole(raw), true, nil
}

// SetRole commits a role change. Promotion and demotion are external
// triggers (tier changes, milestone unlocks); this store only records the
// outcome.
func (p *ProfileStore) SetRole(ctx context.Context, role types.AssistantRole) error {
	return p.db.execContext(ctx, `
		INSERT INTO profiles (user_id, role) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			role = excluded.role,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		p.userID, string(role))
}
