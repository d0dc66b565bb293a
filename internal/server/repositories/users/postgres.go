package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/common"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/dbx"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
)

// uniqueViolation is the PostgreSQL sqlstate for unique-constraint errors.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository binds a repository to db, which may be a *sql.DB or
// a transaction handle.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {

	query :=
		`INSERT INTO users (
            id, email, full_name, birth_date, ci, phone1, phone2, address,
            instagram, facebook, tiktok, ref1_name, ref1_relation,
            ref2_name, ref2_relation, monthly_income, activity_type, position,
            id_file_path, rif_file_path, ref1_id_path, ref2_id_path, work_cert_path,
            files_uploaded, files_uploaded_at
         ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
                   $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FullName, user.BirthDate, user.NationalID,
		user.Phone1, user.Phone2, user.Address,
		user.Instagram, user.Facebook, user.TikTok,
		user.Ref1Name, user.Ref1Relation, user.Ref2Name, user.Ref2Relation,
		user.MonthlyIncome, user.ActivityType, user.Position,
		user.IDFilePath, user.RIFFilePath, user.Ref1IDPath, user.Ref2IDPath, user.WorkCertPath,
		user.FilesUploaded, user.FilesUploadedAt)

	if err != nil {
		if field, ok := conflictField(err); ok {
			return &common.ConflictError{Field: field}
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// conflictField maps a unique-violation error to the colliding column.
func conflictField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}
	if strings.Contains(pgErr.ConstraintName, "ci") {
		return "ci", true
	}
	return "email", true
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE ci = $1`, nationalID)
}

func (r *PostgresRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	query :=
		`SELECT id, email, full_name, ci, phone1,
		        id_file_path, rif_file_path, ref1_id_path, ref2_id_path, work_cert_path,
		        files_uploaded, files_uploaded_at, created_at
		 FROM users
		 WHERE ci = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, nationalID).Scan(
		&user.ID, &user.Email, &user.FullName, &user.NationalID, &user.Phone1,
		&user.IDFilePath, &user.RIFFilePath, &user.Ref1IDPath, &user.Ref2IDPath, &user.WorkCertPath,
		&user.FilesUploaded, &user.FilesUploadedAt, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
