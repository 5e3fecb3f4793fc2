package tokens

import (
	"context"
	"errors"

	"github.com/bailey339/websiteThatlegendjack/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBStore struct {
	db *gorm.DB
}

func (s *DBStore) Load(ctx context.Context) (*model.Token, error) {
	var token model.Token
	err := s.db.WithContext(ctx).First(&token, model.SpotifyTokenID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Save upserts the fixed row in a single statement.
func (s *DBStore) Save(ctx context.Context, token *model.Token) error {
	record := *token
	record.ID = model.SpotifyTokenID
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
}

func (s *DBStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&model.Token{}, model.SpotifyTokenID).Error
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}
