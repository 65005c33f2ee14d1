// Package userstate stores the authenticated state of Discord users who have
// completed the identity provider sign-in. Records never expire.
package userstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/kvstore"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var validate = validator.New()

type State struct {
	SubjectID        string    // Discord user ID
	CreatedAt        time.Time // When the sign-in completed
	VerifiedIdentity string    // Identity asserted by the provider, normally an e-mail
}

type record struct {
	UserID    string `json:"userId" validate:"required"`
	CreatedAt int64  `json:"createdAt" validate:"gt=0"`
	Email     string `json:"email" validate:"required"`
}

// Repo reads and writes State records keyed by subject ID
type Repo struct {
	store kvstore.Store
}

func NewRepo(store kvstore.Store) *Repo {
	return &Repo{store: store}
}

// Put creates or overwrites the state for subjectID
func (r *Repo) Put(ctx context.Context, subjectID, identity string) (*State, error) {
	state := &State{
		SubjectID:        subjectID,
		CreatedAt:        NowTimeFunc().UTC().Truncate(time.Millisecond),
		VerifiedIdentity: identity,
	}
	rec := record{
		UserID:    state.SubjectID,
		CreatedAt: state.CreatedAt.UnixMilli(),
		Email:     state.VerifiedIdentity,
	}
	if err := validate.Struct(rec); err != nil {
		return nil, apperrors.Wrapf(err, "[userstate Put] invalid state")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[userstate Put] encode state")
	}
	if err := r.store.Put(ctx, subjectID, data, 0); err != nil {
		return nil, apperrors.Wrapf(err, "[userstate Put] failed to store state")
	}
	return state, nil
}

// Get returns the state for subjectID or ErrNotFound
func (r *Repo) Get(ctx context.Context, subjectID string) (*State, error) {
	if subjectID == "" {
		return nil, apperrors.ErrNotFound
	}
	data, err := r.store.Get(ctx, subjectID)
	if err != nil {
		if apperrors.Is(err, kvstore.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrapf(err, "[userstate Get] failed to read state")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: user state: %v", apperrors.ErrParse, err)
	}
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: user state: %v", apperrors.ErrParse, err)
	}
	return &State{
		SubjectID:        rec.UserID,
		CreatedAt:        time.UnixMilli(rec.CreatedAt).UTC(),
		VerifiedIdentity: rec.Email,
	}, nil
}

// Delete removes the state for subjectID; deleting an absent state is not an error
func (r *Repo) Delete(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return nil
	}
	if err := r.store.Delete(ctx, subjectID); err != nil {
		return apperrors.Wrapf(err, "[userstate Delete] failed to delete state")
	}
	return nil
}
