package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	FirebaseUID string
	Email       string
	DisplayName string
}

// User is the resolved account the goal engine operates for.
type User struct {
	ID   string
	Tier string
}

// EnsureUser upserts the account row for a firebase identity and returns
// its database id and plan tier. New accounts start on the free tier.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (*User, error) {
	if u.FirebaseUID == "" {
		return nil, fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, display_name, plan_tier, updated_at)
values ($1, nullif($2,''), nullif($3,''), 'free', now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  updated_at = now()
returning id::text, plan_tier;
`
	var out User
	if err := r.db.QueryRow(ctx, q, u.FirebaseUID, u.Email, u.DisplayName).Scan(&out.ID, &out.Tier); err != nil {
		return nil, err
	}
	return &out, nil
}
