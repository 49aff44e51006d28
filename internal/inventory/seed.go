package inventory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// SeedAdmin creates the initial admin account on first boot if no people
// exist. The generated password is logged and must be changed immediately.
// Returns the generated password (empty string if seeding was skipped).
func SeedAdmin(ctx context.Context, people PersonRepository, logger *slog.Logger) (string, error) {
	count, err := people.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking person count: %w", err)
	}

	if count > 0 {
		logger.Info("people exist, skipping admin seed")
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &Person{
		Name:         "System",
		Surname:      "Administrator",
		Email:        "admin@homeinv.local",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}

	if err := people.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"email", admin.Email,
		"password", password,
		"action_required", "change this password immediately",
	)

	return password, nil
}
