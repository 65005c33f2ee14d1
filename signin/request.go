package signin

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
)

var validate = validator.New()

// Request is a pending sign-in: a Discord user who has been handed a link
// but has not yet completed the identity provider consent.
type Request struct {
	SubjectID string    // Discord user ID
	CreatedAt time.Time // When the link was issued
	ExpiresAt time.Time // Logical expiry, checked independently of store eviction
}

// record is the persisted JSON shape, timestamps in epoch milliseconds
type record struct {
	UserID    string `json:"userId" validate:"required"`
	CreatedAt int64  `json:"createdAt" validate:"gt=0"`
	ExpiredAt int64  `json:"expiredAt" validate:"gt=0,gtefield=CreatedAt"`
}

func encode(r Request) ([]byte, error) {
	return json.Marshal(record{
		UserID:    r.SubjectID,
		CreatedAt: r.CreatedAt.UnixMilli(),
		ExpiredAt: r.ExpiresAt.UnixMilli(),
	})
}

func decode(data []byte) (*Request, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: pending request: %v", apperrors.ErrParse, err)
	}
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: pending request: %v", apperrors.ErrParse, err)
	}
	return &Request{
		SubjectID: rec.UserID,
		CreatedAt: time.UnixMilli(rec.CreatedAt).UTC(),
		ExpiresAt: time.UnixMilli(rec.ExpiredAt).UTC(),
	}, nil
}
