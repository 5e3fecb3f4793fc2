package model

import (
	"time"
)

// SpotifyTokenID is the primary key of the only token row; the credential is
// shared by the whole site.
const SpotifyTokenID = 1

// Token is the persisted Spotify credential. RefreshToken must never leave
// the server.
type Token struct {
	ID           uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	AccessToken  string    `gorm:"size:512;not null" json:"accessToken"`
	RefreshToken string    `gorm:"size:512;not null" json:"refreshToken"`
	Scope        string    `gorm:"size:256;not null;default:''" json:"scope"`
	ExpiresAt    time.Time `gorm:"not null" json:"expiresAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Token) TableName() string {
	return "spotify_tokens"
}

// IsFresh reports whether the access token can still be used at now, keeping
// margin as a safety window before the literal expiry.
func (t *Token) IsFresh(now time.Time, margin time.Duration) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-margin))
}
