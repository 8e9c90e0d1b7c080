package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
)

const uniqueViolation = "23505"

// PgxAccountRepository persists the chart of accounts.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_key, code, name, account_type, parent_group, parent_account_key, is_active, extra, created_at, last_updated_at`

// scanAccount reads one account row, normalizing the nullable parent key.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var parentKey sql.NullString
	err := row.Scan(
		&acc.AccountKey,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.ParentGroup,
		&parentKey,
		&acc.IsActive,
		&acc.Extra,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc.ParentAccountKey = parentKey.String
	return &acc, nil
}

// SaveAccount inserts a new account. A duplicate key or code surfaces
// apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountKey,
		account.Code,
		account.Name,
		account.AccountType,
		account.ParentGroup,
		nullString(account.ParentAccountKey),
		account.IsActive,
		account.Extra,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: account key %s or code %s already in use", apperrors.ErrDuplicate, account.AccountKey, account.Code)
		}
		return fmt.Errorf("%w: failed to save account %s: %w", apperrors.ErrStorage, account.AccountKey, err)
	}
	return nil
}

// UpdateAccount updates the mutable fields of an existing account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, parent_group = $3, parent_account_key = $4, is_active = $5, extra = $6, last_updated_at = $7
		WHERE account_key = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountKey,
		account.Name,
		account.ParentGroup,
		nullString(account.ParentAccountKey),
		account.IsActive,
		account.Extra,
		account.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update account %s: %w", apperrors.ErrStorage, account.AccountKey, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountKey)
	}
	return nil
}

// DeactivateAccount marks an account inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountKey string, now time.Time) error {
	query := `UPDATE accounts SET is_active = FALSE, last_updated_at = $2 WHERE account_key = $1;`
	tag, err := r.Pool.Exec(ctx, query, accountKey, now)
	if err != nil {
		return fmt.Errorf("%w: failed to deactivate account %s: %w", apperrors.ErrStorage, accountKey, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountKey)
	}
	return nil
}

// FindAccountByKey retrieves an account by its business key.
func (r *PgxAccountRepository) FindAccountByKey(ctx context.Context, accountKey string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_key = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountKey)
		}
		return nil, fmt.Errorf("%w: failed to find account %s: %w", apperrors.ErrStorage, accountKey, err)
	}
	return acc, nil
}

// FindAccountByCode retrieves an account by its numeric-string code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("%w: failed to find account by code %s: %w", apperrors.ErrStorage, code, err)
	}
	return acc, nil
}

// FindAccountsByKeys batch-resolves accounts. Missing keys are simply absent
// from the result map.
func (r *PgxAccountRepository) FindAccountsByKeys(ctx context.Context, accountKeys []string) (map[string]domain.Account, error) {
	if len(accountKeys) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_key = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountKeys)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to batch find accounts: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	result := make(map[string]domain.Account, len(accountKeys))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan account row: %w", apperrors.ErrStorage, err)
		}
		result[acc.AccountKey] = *acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate account rows: %w", apperrors.ErrStorage, err)
	}
	return result, nil
}

// ListAccounts retrieves a filtered page of accounts plus the total count.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter, limit, offset int) ([]domain.Account, int64, error) {
	where := ""
	args := []any{}
	addCond := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += cond + "$" + strconv.Itoa(len(args))
	}
	if filter.AccountType != nil {
		addCond("account_type = ", *filter.AccountType)
	}
	if filter.ParentGroup != nil {
		addCond("parent_group = ", *filter.ParentGroup)
	}
	if filter.IsActive != nil {
		addCond("is_active = ", *filter.IsActive)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to count accounts: %w", apperrors.ErrStorage, err)
	}

	pageArgs := append(args, limit, offset)
	query := `SELECT ` + accountColumns + ` FROM accounts` + where +
		` ORDER BY code ASC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	rows, err := r.Pool.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to list accounts: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to scan account row: %w", apperrors.ErrStorage, err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: failed to iterate account rows: %w", apperrors.ErrStorage, err)
	}
	return accounts, total, nil
}

// ListAllAccounts retrieves the full chart of accounts.
func (r *PgxAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code ASC;`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list all accounts: %w", apperrors.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan account row: %w", apperrors.ErrStorage, err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate account rows: %w", apperrors.ErrStorage, err)
	}
	return accounts, nil
}

// EnsureAccounts inserts each account only if its key is absent, then
// re-reads the persisted records so racing creators converge on one row per
// key. Results are returned in request order.
func (r *PgxAccountRepository) EnsureAccounts(ctx context.Context, accounts []domain.Account) ([]domain.Account, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_key) DO NOTHING;
	`
	batch := &pgx.Batch{}
	keys := make([]string, len(accounts))
	for i, acc := range accounts {
		keys[i] = acc.AccountKey
		batch.Queue(query,
			acc.AccountKey, acc.Code, acc.Name, acc.AccountType, acc.ParentGroup,
			nullString(acc.ParentAccountKey), acc.IsActive, acc.Extra,
			acc.CreatedAt, acc.LastUpdatedAt,
		)
	}
	if err := r.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to ensure accounts: %w", apperrors.ErrStorage, err)
	}

	persisted, err := r.FindAccountsByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Account, 0, len(keys))
	for _, key := range keys {
		acc, ok := persisted[key]
		if !ok {
			return nil, fmt.Errorf("%w: account %s missing after ensure", apperrors.ErrStorage, key)
		}
		result = append(result, acc)
	}
	return result, nil
}
