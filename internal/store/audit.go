package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tiller/internal/gate"
	"tiller/internal/types"
)

// Audit record kinds.
const (
	auditKindEvaluation = "engine_evaluation"
	auditKindVerdict    = "gate_verdict"
)

// AuditLog records engine evaluations and gate verdicts. The engine's full
// candidate list is never shown to the user; this is where it goes instead.
type AuditLog struct {
	db     *DB
	userID string
}

// Audit returns the audit log scoped to one user.
func (d *DB) Audit(userID string) *AuditLog {
	return &AuditLog{db: d, userID: userID}
}

// AuditRecord is one recalled audit entry.
type AuditRecord struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Payload    string `json:"payload"`
	RecordedAt string `json:"recorded_at"`
}

type evaluationPayload struct {
	Input  types.PriorityInput        `json:"input"`
	Output types.PriorityEngineOutput `json:"output"`
}

type verdictPayload struct {
	Action  types.ActionType `json:"action"`
	Verdict gate.Verdict     `json:"verdict"`
}

// RecordEvaluation appends one engine evaluation, input and full output
// included.
func (a *AuditLog) RecordEvaluation(ctx context.Context, in types.PriorityInput, out types.PriorityEngineOutput) error {
	return a.append(ctx, auditKindEvaluation, evaluationPayload{Input: in, Output: out})
}

// RecordVerdict appends one gate decision.
func (a *AuditLog) RecordVerdict(ctx context.Context, action types.ActionType, v gate.Verdict) error {
	return a.append(ctx, auditKindVerdict, verdictPayload{Action: action, Verdict: v})
}

func (a *AuditLog) append(ctx context.Context, kind string, payload any) error {
	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode audit payload: %w", err)
	}
	return a.db.execContext(ctx, `
		INSERT INTO decision_audit (id, user_id, kind, payload)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), a.userID, kind, string(blob))
}

// Recent returns up to limit records for the user, newest first.
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.db.QueryContext(ctx, `
		SELECT id, kind, payload, recorded_at
		FROM decision_audit
		WHERE user_id = ?
		ORDER BY recorded_at DESC, id
		LIMIT ?`,
		a.userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var rec AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Payload, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
