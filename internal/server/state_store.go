package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"careguide/backend/internal/guide"
)

// GuideState is the whole per-user guidance snapshot. It is stored as one
// JSONB blob and rewritten wholesale on every mutation; there is no
// incremental merge at the storage layer.
type GuideState struct {
	MinimalDiagnosis   *guide.MinimalDiagnosis   `json:"minimalDiagnosis,omitempty"`
	DetailedDiagnosis  *guide.DetailedDiagnosis  `json:"detailedDiagnosis,omitempty"`
	Plan               *guide.Plan               `json:"plan,omitempty"`
	AssessmentResult   *guide.AssessmentResult   `json:"assessmentResult,omitempty"`
	PreparednessResult *guide.PreparednessResult `json:"preparednessResult,omitempty"`
}

var errNoGuideState = errors.New("guide state not found")

func (a *App) loadGuideState(ctx context.Context, userID string) (GuideState, error) {
	var raw []byte
	err := a.db.QueryRow(
		ctx,
		`SELECT "stateJson" FROM "GuideState" WHERE "userId" = $1`,
		userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return GuideState{}, errNoGuideState
	}
	if err != nil {
		return GuideState{}, err
	}

	var state GuideState
	if err := json.Unmarshal(raw, &state); err != nil {
		return GuideState{}, fmt.Errorf("corrupt guide state for user %s: %w", userID, err)
	}
	return state, nil
}

func (a *App) saveGuideState(ctx context.Context, userID string, state GuideState, now time.Time) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(
		ctx,
		`INSERT INTO "GuideState" ("userId", "stateJson", "updatedAt")
		 VALUES ($1, $2, $3)
		 ON CONFLICT ("userId") DO UPDATE SET "stateJson" = $2, "updatedAt" = $3`,
		userID,
		string(encoded),
		now.UTC(),
	)
	return err
}

func (a *App) deleteGuideState(ctx context.Context, userID string) error {
	_, err := a.db.Exec(
		ctx,
		`DELETE FROM "GuideState" WHERE "userId" = $1`,
		userID,
	)
	return err
}
