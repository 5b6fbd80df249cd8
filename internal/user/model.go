package user

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	EmployeeID   string    `db:"employee_id" json:"employee_id"`
	Department   string    `db:"department" json:"department"`
	PasswordHash string    `db:"password_hash" json:"-"`
	HomeAddress  *string   `db:"home_address" json:"home_address,omitempty"`
	HomeLat      *float64  `db:"home_lat" json:"home_lat,omitempty"`
	HomeLng      *float64  `db:"home_lng" json:"home_lng,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type HomeAddress struct {
	Address string  `json:"address" binding:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type RegisterRequest struct {
	Name        string       `json:"name" binding:"required,min=2"`
	Email       string       `json:"email" binding:"required,email"`
	Phone       string       `json:"phone" binding:"required"`
	EmployeeID  string       `json:"employee_id" binding:"required"`
	Department  string       `json:"department" binding:"required"`
	Password    string       `json:"password" binding:"required,min=8"`
	HomeAddress *HomeAddress `json:"home_address,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Phone       *string      `json:"phone,omitempty"`
	Department  *string      `json:"department,omitempty"`
	HomeAddress *HomeAddress `json:"home_address,omitempty"`
}

type LoginResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
