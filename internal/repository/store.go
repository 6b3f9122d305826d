package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultMaxAttempts = 3

// Store groups the repositories over one connection or one transaction.
type Store struct {
	db          *gorm.DB
	maxAttempts int

	Users         UserRepository
	Boards        BoardRepository
	Members       MemberRepository
	Columns       ColumnRepository
	Tasks         TaskRepository
	Tags          TagRepository
	Notifications NotificationRepository
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxAttempts bounds how often Transaction runs fn after a lock conflict.
func WithMaxAttempts(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewStore creates a Store backed by db.
func NewStore(db *gorm.DB, opts ...StoreOption) *Store {
	s := &Store{maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s.bind(db)
}

func (s *Store) bind(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		maxAttempts:   s.maxAttempts,
		Users:         NewUserRepository(db),
		Boards:        NewBoardRepository(db),
		Members:       NewMemberRepository(db),
		Columns:       NewColumnRepository(db),
		Tasks:         NewTaskRepository(db),
		Tags:          NewTagRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext returns a Store whose queries carry ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return s.bind(s.db.WithContext(ctx))
}

// Transaction runs fn in a database transaction. A deadlock or serialization
// failure rolls back and runs fn again, up to the configured attempts, so fn
// must not keep state across calls.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(s.bind(tx))
		})
		if err == nil || !IsRetryable(err) || ctx.Err() != nil {
			return err
		}

		logrus.WithError(err).WithField("attempt", attempt).Warn("transaction conflict, retrying")
	}
	return err
}
