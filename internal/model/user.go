package model

type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HashedPassword string `json:"password"`
	Guest          bool   `json:"guest,omitempty"`
}
