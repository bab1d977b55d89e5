package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

type output struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Created     bool   `json:"created"`
	BearerToken string `json:"bearer_token"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "HS256 secret used by the API")
		jwtTTL      = flag.Duration("jwt-ttl", 60*time.Minute, "Token lifetime")
		email       = flag.String("email", "admin@tasknest.local", "Admin email")
		password    = flag.String("password", "", "Password for a newly created admin")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fail("DATABASE_URL is required")
	}
	if *jwtSecret == "" {
		fail("JWT_SECRET is required")
	}
	if f := strings.ToLower(*format); f != "plain" && f != "json" {
		fail("invalid format; use plain or json")
	}

	out, err := run(*databaseURL, *jwtSecret, *jwtTTL, *email, *password)
	if err != nil {
		fail(err.Error())
	}

	if strings.ToLower(*format) == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}
	fmt.Println(out.BearerToken)
}

func run(databaseURL, jwtSecret string, jwtTTL time.Duration, email, password string) (*output, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params)
	user, created, err := ensureAdmin(ctx, repo, hasher, email, password)
	if err != nil {
		return nil, err
	}

	token, err := auth.NewTokenIssuer(jwtSecret, jwtTTL).Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &output{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		Created:     created,
		BearerToken: token,
	}, nil
}

// ensureAdmin returns the admin account for email, creating it or
// promoting an existing user as needed.
func ensureAdmin(ctx context.Context, repo *repository.Repository, hasher *auth.PasswordHasher, email, password string) (*model.User, bool, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			if err := repo.UpdateUserRole(ctx, existing.ID, model.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("promote user %d: %w", existing.ID, err)
			}
			existing.Role = model.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	if password == "" {
		return nil, false, fmt.Errorf("user %s does not exist; -password is required to create it", email)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: hash,
		Role:     model.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
