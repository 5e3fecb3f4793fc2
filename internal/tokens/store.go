package tokens

import (
	"context"

	"github.com/bailey339/websiteThatlegendjack/model"
)

// Store persists the single shared Spotify token. Load returns
// ErrTokenNotFound when no token is stored. Save always replaces the whole
// record.
type Store interface {
	Load(ctx context.Context) (*model.Token, error)
	Save(ctx context.Context, token *model.Token) error
	Clear(ctx context.Context) error
}
