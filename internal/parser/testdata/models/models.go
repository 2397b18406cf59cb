package models

import (
	"encoding/json"
	"time"
)

// Role of an account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Audit is embedded in every table.
type Audit struct {
	// @zod.describe('creation time')
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// User is a registered account.
// @zod.import(["import { checkUser } from './checks'"]).refine(checkUser)
type User struct {
	Audit
	ID int64 `json:"id"`
	// Login address.
	// @zod.email()
	Email    string          `json:"email"`
	Role     Role            `json:"role"`
	Tags     []string        `json:"tags,omitempty"`
	Avatar   []byte          `json:"avatar"`
	Meta     json.RawMessage `json:"meta"`
	Posts    []*Post         `json:"posts"`
	Password string          `json:"-"`
	Internal string          `json:"internal" zod:"skip"`
	secret   string
}

// Post was written by a user.
type Post struct {
	Title string `json:"title"` // @zod.min(1).max(200)
	Score float64
	// Deprecated: use Score.
	Rank int `json:"rank"`
}

// Legacy is kept for old clients.
//
// Deprecated: do not use.
type Legacy struct {
	Name string
}

func (u User) hidden() string { return u.secret }
