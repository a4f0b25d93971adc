// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/uniquest/uniquest/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int          `db:"id"`
	Username     string       `db:"username"`
	Email        null.String  `db:"email"`
	StudentID    null.String  `db:"student_id"`
	IsActive     bool         `db:"is_active"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    sql.NullTime `db:"created_at"`
	UpdatedAt    sql.NullTime `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		StudentID:    r.StudentID,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
		LastLogin:    r.LastLogin.Time,
	}
}

const userColumns = `id, username, email, student_id, is_active, password_hash, created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make([]int, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}
	if len(excluded) == 0 {
		excluded = append(excluded, 0) // IN () is invalid SQL
	}

	q, args, err := sqlx.In(
		`SELECT username, email FROM "user" WHERE (username = ? OR email = ?) AND id NOT IN (?)`,
		username, email, excluded,
	)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var rows []userRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, row := range rows {
		if row.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && row.Email.String == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	err := repo.db.QueryRow(
		`INSERT INTO "user" (username, email, student_id, is_active, password_hash, created_at, updated_at, last_login)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		usr.Username, usr.Email, usr.StudentID, usr.IsActive, usr.PasswordHash,
		usr.CreatedAt, usr.UpdatedAt, nullTime(usr.LastLogin),
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT `+userColumns+` FROM "user" ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM "user" WHERE username = $1 OR email = $1`, username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.get(`SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	res, err := repo.db.Exec(
		`UPDATE "user" SET username = $1, email = $2, student_id = $3, is_active = $4,
		 password_hash = $5, updated_at = $6, last_login = $7 WHERE id = $8`,
		usr.Username, usr.Email, usr.StudentID, usr.IsActive, usr.PasswordHash,
		usr.UpdatedAt, nullTime(usr.LastLogin), usr.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) get(query string, args ...interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.user(), nil
}
