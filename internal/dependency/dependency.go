package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/marketlane/sellermetrics/internal/entity"
)

type (
	Transactions interface {
		// FindByDateRange returns the scope's orders created within [from, to]
		// with their line items, oldest first.
		FindByDateRange(ctx context.Context, scope entity.Scope, from, to time.Time, filter entity.StatusFilter) ([]entity.Transaction, error)
		// FindAllBefore returns every order of the scope created at or before
		// the given instant, without line items.
		FindAllBefore(ctx context.Context, scope entity.Scope, before time.Time, filter entity.StatusFilter) ([]entity.Transaction, error)
	}

	Requests interface {
		// FindRequests returns non-rejected custom product requests within [from, to].
		FindRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.Request, error)
		// FindProjectRequests returns non-rejected project requests within [from, to].
		FindProjectRequests(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.ProjectRequest, error)
	}

	Conversations interface {
		// FindConversations returns the conversations userId takes part in with
		// messages sent since the given instant. An empty userId returns all
		// conversations.
		FindConversations(ctx context.Context, userId string, since time.Time) ([]entity.Conversation, error)
	}

	Sellers interface {
		GetSellerById(ctx context.Context, id string) (*entity.Seller, error)
		GetSellerByUserId(ctx context.Context, userId string) (*entity.Seller, error)
		ListSellers(ctx context.Context) ([]entity.Seller, error)
	}

	Repository interface {
		Transactions() Transactions
		Requests() Requests
		Conversations() Conversations
		Sellers() Sellers
		Ping(ctx context.Context) error
		Close()
	}

	// DB represents database interface.
	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
