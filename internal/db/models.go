package db

import (
	"time"
)

// Enumerated string values persisted in the tables below. Kept as plain
// strings so the schema stays portable between MySQL and SQLite.
const (
	GenderMen   = "men"
	GenderWomen = "women"

	InterestMen      = "men"
	InterestWomen    = "women"
	InterestEveryone = "everyone"

	DecisionLike = "like"
	DecisionPass = "pass"

	PoolStatusWaiting = "waiting"
	PoolStatusActive  = "active"
	PoolStatusPaused  = "paused"
)

// MaxPhotos is the exact number of photos a profile must carry.
const MaxPhotos = 3

// MinAge is the minimum age accepted at onboarding.
const MinAge = 18

// PoolConfig holds per-pool gating state. Code is stored normalized
// (trimmed, lowercase). DisplayCount is the admin-controlled counter shown
// on the waiting screen; it is deliberately independent of the true signup
// count.
type PoolConfig struct {
	Code         string    `gorm:"primaryKey;size:64"`
	Status       string    `gorm:"size:16;not null;default:waiting"`
	DisplayCount int64     `gorm:"not null;default:0"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile is one user's identity inside a pool.
//
// Invariants:
//   - DatingPool never changes after creation.
//   - IsFinalized only transitions false -> true.
type Profile struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	Name         string    `gorm:"size:64;not null"`
	Age          int       `gorm:"not null"`
	Gender       string    `gorm:"size:16;not null"`
	Frat         string    `gorm:"size:32;not null"`
	HeightCM     int       `gorm:"not null"`
	InterestedIn string    `gorm:"size:16;not null"`
	OneLiner     string    `gorm:"size:255"`
	Photos       []string  `gorm:"serializer:json"`
	DatingPool   string    `gorm:"size:64;not null;index"`
	IsFinalized  bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Preference holds the owning user's feed filters. 1:1 with Profile.
type Preference struct {
	UserID        string    `gorm:"primaryKey;size:64"`
	AgeMin        int       `gorm:"not null"`
	AgeMax        int       `gorm:"not null"`
	HeightMin     int       `gorm:"not null"`
	HeightMax     int       `gorm:"not null"`
	InterestedIn  string    `gorm:"size:16;not null"`
	FratWhitelist []string  `gorm:"serializer:json"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Swipe records one user's like/pass decision on another.
//
// Composite PK (SwiperID, SwipeeID) guarantees a single row per ordered
// pair; repeats overwrite the decision.
type Swipe struct {
	SwiperID  string    `gorm:"primaryKey;size:64"`
	SwipeeID  string    `gorm:"primaryKey;size:64;index:idx_swipee_decision,priority:1"`
	Decision  string    `gorm:"size:8;not null;index:idx_swipee_decision,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Match stores a mutual like as a canonical unordered pair with
// UserA < UserB under lexicographic order. The unique index is what makes
// concurrent reconciliation converge on a single row.
type Match struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserA     string    `gorm:"size:64;not null;uniqueIndex:idx_match_pair,priority:1;index"`
	UserB     string    `gorm:"size:64;not null;uniqueIndex:idx_match_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Chat is 1:1 with Match; it carries no state of its own.
type Chat struct {
	ID        string    `gorm:"primaryKey;size:64"`
	MatchID   string    `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is an append-only chat line. Immutable once created.
type Message struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ChatID    string    `gorm:"size:64;not null;index:idx_chat_created,priority:1"`
	Sender    string    `gorm:"size:64;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_created,priority:2"`
}

// DateConfirmation marks one member's commitment to a match. Composite PK
// prevents confirming the same match twice; the one-confirmation-ever rule
// is a business check layered on top (see the match service).
type DateConfirmation struct {
	MatchID   string    `gorm:"primaryKey;size:64"`
	Confirmer string    `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
