package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, phone, employee_id, department, password_hash, home_address, home_lat, home_lng, created_at`

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (name, email, phone, employee_id, department, password_hash, home_address, home_lat, home_lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, userColumns)

	var created User
	err := r.db.GetContext(ctx, &created, query,
		u.Name, u.Email, u.Phone, u.EmployeeID, u.Department, u.PasswordHash,
		u.HomeAddress, u.HomeLat, u.HomeLng,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	var u User
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var u User
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE employee_id = $1)`, employeeID)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateProfile builds the SET clause from the fields the caller actually sent,
// so an omitted field never clobbers a stored value.
func (r *repository) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1

	if req.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", idx))
		args = append(args, *req.Phone)
		idx++
	}
	if req.Department != nil {
		sets = append(sets, fmt.Sprintf("department = $%d", idx))
		args = append(args, *req.Department)
		idx++
	}
	if req.HomeAddress != nil {
		sets = append(sets, fmt.Sprintf("home_address = $%d", idx))
		args = append(args, req.HomeAddress.Address)
		idx++
		sets = append(sets, fmt.Sprintf("home_lat = $%d", idx))
		args = append(args, req.HomeAddress.Lat)
		idx++
		sets = append(sets, fmt.Sprintf("home_lng = $%d", idx))
		args = append(args, req.HomeAddress.Lng)
		idx++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, userID)
	}

	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, userColumns)
	args = append(args, userID)

	var u User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, err
	}

	return &u, nil
}
