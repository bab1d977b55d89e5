// Package bootstrap applies startup data such as seed accounts.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

// SeedUser is one account in the seed file.
type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedFile is the YAML document read by LoadSeedFile.
//
//	users:
//	  - email: admin@example.com
//	    password: Sup3rSecret
//	    role: ADMIN
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// UserStore is the subset of the user store the seeder needs.
type UserStore interface {
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// Hasher hashes seed passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Result counts what a seed run did.
type Result struct {
	Created int
	Skipped int
}

// LoadSeedFile reads and validates a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed decodes a seed document. Unknown keys are rejected.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file SeedFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(file.Users))
	for i, u := range file.Users {
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return nil, fmt.Errorf("seed user %d: email and password are required", i)
		}
		if _, ok := model.ParseUserRole(u.Role); !ok {
			return nil, fmt.Errorf("seed user %s: invalid role %q", u.Email, u.Role)
		}
		if seen[u.Email] {
			return nil, fmt.Errorf("seed user %s: duplicate email", u.Email)
		}
		seen[u.Email] = true
	}
	return &file, nil
}

// Seeder creates seed accounts that do not exist yet.
type Seeder struct {
	users  UserStore
	hasher Hasher
	logger *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(users UserStore, hasher Hasher, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, hasher: hasher, logger: logger.With("component", "bootstrap.seed")}
}

// Apply creates every user in file whose email is not registered.
// Existing accounts are left untouched, so Apply is safe on every start.
func (s *Seeder) Apply(ctx context.Context, file *SeedFile) (Result, error) {
	var res Result
	for _, u := range file.Users {
		exists, err := s.users.UserExistsByEmail(ctx, u.Email)
		if err != nil {
			return res, fmt.Errorf("check seed user %s: %w", u.Email, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		hash, err := s.hasher.Hash(u.Password)
		if err != nil {
			return res, fmt.Errorf("hash seed user %s: %w", u.Email, err)
		}
		role, _ := model.ParseUserRole(u.Role)

		user := &model.User{Email: u.Email, Password: hash, Role: role}
		if err := s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("create seed user %s: %w", u.Email, err)
		}

		s.logger.Info("seed user created", "user_id", user.ID, "role", string(role))
		res.Created++
	}
	return res, nil
}
