package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
}
