package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("session not found")

// Session is one durable login against the upstream commerce API. The bearer
// token never leaves this process; browsers only ever see the signed cookie.
type Session struct {
	ID        string    `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"not null"        json:"-"`
	CreatedAt time.Time `gorm:"not null"        json:"created_at"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Session{}); err != nil {
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Create(ctx context.Context, token string) (*Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// Current returns the most recent session, the one whose token seeds the
// global store at boot.
func (s *Store) Current(ctx context.Context) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Order("created_at DESC").First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load current session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
