package model

import "time"

// User - просто запись, никакой логики (не ORM-модель).
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
