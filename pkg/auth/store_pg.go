package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/probelab/accountd/pkg/logger"
	"github.com/probelab/accountd/pkg/pg"
)

const userColumns = `id, google_id, email, name, given_name, family_name, picture,
	email_verified, pricing_tier, active, created_at, updated_at, last_login_at`

// PGStore implements UserStore over PostgreSQL. Every operation opens one
// short-lived connection, runs a single parameterized statement within the
// configured query timeout, and closes the connection. Connection failures
// degrade to ErrStoreUnavailable instead of propagating.
type PGStore struct {
	cfg pg.Config
	log *slog.Logger
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithPGStoreLogger sets the logger used for degraded-operation warnings.
func WithPGStoreLogger(l *slog.Logger) PGStoreOption {
	return func(s *PGStore) { s.log = l }
}

func NewPGStore(cfg pg.Config, opts ...PGStoreOption) *PGStore {
	s := &PGStore{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ UserStore = (*PGStore)(nil)

func (s *PGStore) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return s.findOne(ctx, "google_id = $1", googleID)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, "email = $1", email)
}

func (s *PGStore) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *PGStore) Create(ctx context.Context, nu NewUser) (*User, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close(context.Background()) }()

	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	tier := nu.Tier
	if !tier.Valid() {
		tier = TierDeveloper
	}

	row := conn.QueryRow(queryCtx, `
		INSERT INTO users (google_id, email, name, given_name, family_name, picture,
			email_verified, pricing_tier, active, last_login_at)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, TRUE, now())
		RETURNING `+userColumns,
		nu.GoogleID, nu.Email, nu.Name, nu.GivenName, nu.FamilyName, nu.Picture,
		nu.EmailVerified, tier,
	)

	u, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			if strings.Contains(pg.ConstraintName(err), "google_id") {
				return nil, ErrDuplicateGoogleID
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PGStore) UpdateFields(ctx context.Context, id int64, fields Fields) error {
	if len(fields) == 0 {
		return ErrNoFieldsToUpdate
	}

	// Deterministic column order keeps statements stable for logging and tests.
	cols := make([]string, 0, len(fields))
	for col := range fields {
		switch col {
		case FieldGoogleID, FieldPicture, FieldLastLoginAt, FieldTier, FieldActive, FieldEmailVerified:
			cols = append(cols, col)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, col)
		}
	}
	sort.Strings(cols)

	var sb strings.Builder
	args := make([]any, 0, len(cols)+1)
	sb.WriteString("UPDATE users SET updated_at = now()")
	for i, col := range cols {
		fmt.Fprintf(&sb, ", %s = $%d", col, i+1)
		args = append(args, fields[col])
	}
	fmt.Fprintf(&sb, " WHERE id = $%d", len(cols)+1)
	args = append(args, id)

	conn, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(context.Background()) }()

	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	tag, err := conn.Exec(queryCtx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PGStore) findOne(ctx context.Context, where string, arg any) (*User, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close(context.Background()) }()

	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	row := conn.QueryRow(queryCtx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *PGStore) open(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pg.Open(ctx, s.cfg)
	if err != nil {
		s.log.WarnContext(ctx, "record store unreachable, degrading",
			logger.Error(err),
			logger.Component("user_store"),
		)
		return nil, ErrStoreUnavailable
	}
	return conn, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u        User
		googleID *string
	)
	if err := row.Scan(
		&u.ID, &googleID, &u.Email, &u.Name, &u.GivenName, &u.FamilyName, &u.Picture,
		&u.EmailVerified, &u.Tier, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	); err != nil {
		return nil, err
	}
	if googleID != nil {
		u.GoogleID = *googleID
	}
	return &u, nil
}
