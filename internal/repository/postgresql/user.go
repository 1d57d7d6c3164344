package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.full_name, u.role, u.office_id, u.manager_id,
	u.employee_code, u.biometric_id, u.designation, u.phone_number, u.joining_date,
	u.relieving_date, u.basic_salary, u.per_day_salary, u.is_active, u.oauth_provider,
	u.oauth_provider_id, u.created_at, u.updated_at, o.name`

const userFrom = `FROM users u LEFT JOIN offices o ON o.id = u.office_id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.OfficeID,
		&u.ManagerID,
		&u.EmployeeCode,
		&u.BiometricID,
		&u.Designation,
		&u.PhoneNumber,
		&u.JoiningDate,
		&u.RelievingDate,
		&u.BasicSalary,
		&u.PerDaySalary,
		&u.IsActive,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.OfficeName,
	)
	return u, err
}

func (r *userRepositoryImpl) queryUsers(ctx context.Context, query string, args ...any) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepositoryImpl) getOne(ctx context.Context, clause string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` ` + userFrom + ` WHERE ` + clause
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		return user.User{}, notFound(err, user.ErrUserNotFound)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

// GetByBiometricID implements user.UserRepository.
func (r *userRepositoryImpl) GetByBiometricID(ctx context.Context, biometricID string) (user.User, error) {
	return r.getOne(ctx, "u.biometric_id = $1", biometricID)
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			email, password_hash, full_name, role, office_id, manager_id, employee_code,
			biometric_id, designation, phone_number, joining_date, basic_salary,
			per_day_salary, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FullName,
		newUser.Role,
		newUser.OfficeID,
		newUser.ManagerID,
		newUser.EmployeeCode,
		newUser.BiometricID,
		newUser.Designation,
		newUser.PhoneNumber,
		newUser.JoiningDate,
		newUser.BasicSalary,
		newUser.PerDaySalary,
		newUser.IsActive,
	).Scan(&id)
	if err != nil {
		return user.User{}, mapUserConstraint(err)
	}

	return r.GetByID(ctx, id)
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users SET
			full_name = $1, role = $2, office_id = $3, manager_id = $4, employee_code = $5,
			biometric_id = $6, designation = $7, phone_number = $8, joining_date = $9,
			basic_salary = $10, per_day_salary = $11, updated_at = NOW()
		WHERE id = $12
	`

	tag, err := q.Exec(ctx, query,
		u.FullName,
		u.Role,
		u.OfficeID,
		u.ManagerID,
		u.EmployeeCode,
		u.BiometricID,
		u.Designation,
		u.PhoneNumber,
		u.JoiningDate,
		u.BasicSalary,
		u.PerDaySalary,
		u.ID,
	)
	if err != nil {
		return user.User{}, mapUserConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return user.User{}, user.ErrUserNotFound
	}

	return r.GetByID(ctx, u.ID)
}

func mapUserConstraint(err error) error {
	switch database.ConstraintName(err) {
	case "users_email_key":
		return user.ErrUserEmailExists
	case "users_employee_code_key":
		return user.ErrEmployeeCodeExists
	case "users_biometric_id_key":
		return user.ErrBiometricIDExists
	}
	return err
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	var c conditions
	if filter.Search != nil && *filter.Search != "" {
		c.add("(u.full_name ILIKE $%[1]d OR u.email ILIKE $%[1]d OR u.employee_code ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}
	if filter.OfficeID != nil {
		c.add("u.office_id = $%d", *filter.OfficeID)
	}
	if filter.Role != nil {
		c.add("u.role = $%d", *filter.Role)
	}
	if filter.IsActive != nil {
		c.add("u.is_active = $%d", *filter.IsActive)
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + userFrom + ` ` + c.where()
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, countQuery, c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY u.full_name LIMIT %s OFFSET %s`,
		userColumns, userFrom, c.where(), c.next(filter.Limit), c.next(filter.Offset()))
	users, err := r.queryUsers(ctx, query, c.args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context, officeID *string) ([]user.User, error) {
	var c conditions
	c.raw("u.is_active")
	if officeID != nil {
		c.add("u.office_id = $%d", *officeID)
	}
	query := `SELECT ` + userColumns + ` ` + userFrom + ` ` + c.where() + ` ORDER BY u.full_name`
	return r.queryUsers(ctx, query, c.args...)
}

// ListWithoutBiometricID implements user.UserRepository.
func (r *userRepositoryImpl) ListWithoutBiometricID(ctx context.Context, officeID *string) ([]user.User, error) {
	var c conditions
	c.raw("u.is_active")
	c.raw("(u.biometric_id IS NULL OR u.biometric_id = '')")
	if officeID != nil {
		c.add("u.office_id = $%d", *officeID)
	}
	query := `SELECT ` + userColumns + ` ` + userFrom + ` ` + c.where() + ` ORDER BY u.created_at, u.full_name`
	return r.queryUsers(ctx, query, c.args...)
}

// BiometricIDsInUse implements user.UserRepository. Keys are biometric ids,
// values the owning user ids.
func (r *userRepositoryImpl) BiometricIDsInUse(ctx context.Context) (map[string]string, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT biometric_id, id FROM users WHERE biometric_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inUse := make(map[string]string)
	for rows.Next() {
		var bio, id string
		if err := rows.Scan(&bio, &id); err != nil {
			return nil, err
		}
		inUse[bio] = id
	}
	return inUse, rows.Err()
}

func (r *userRepositoryImpl) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return mapUserConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetBiometricID implements user.UserRepository.
func (r *userRepositoryImpl) SetBiometricID(ctx context.Context, userID string, biometricID *string) error {
	return r.execOne(ctx, `UPDATE users SET biometric_id = $1, updated_at = NOW() WHERE id = $2`, biometricID, userID)
}

// SetRelievingDate implements user.UserRepository.
func (r *userRepositoryImpl) SetRelievingDate(ctx context.Context, userID string, date *time.Time) error {
	return r.execOne(ctx, `UPDATE users SET relieving_date = $1, updated_at = NOW() WHERE id = $2`, date, userID)
}

// SetActive implements user.UserRepository.
func (r *userRepositoryImpl) SetActive(ctx context.Context, userID string, active bool) error {
	return r.execOne(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, userID)
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, userID, googleID string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
		WHERE id = $2
	`, googleID, userID)
}
