package domain

type UserID int64

type User struct {
	ID           UserID
	Email        string
	PasswordHash string
}
