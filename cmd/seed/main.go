// Command seed provisions the fixed admin account and a batch of generated
// active users, writing through the same repository and hasher the service
// uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/infrastructure/config"
	mongodb "github.com/perlametro/users-service/internal/infrastructure/db/mongo"
	"github.com/perlametro/users-service/pkg/logger"
	"github.com/perlametro/users-service/pkg/password"
)

const (
	adminEmail    = "admin@perlametro.cl"
	adminPassword = "Admin123!"
)

var firstNames = []string{
	"Sofia", "Mateo", "Valentina", "Benjamin", "Isidora", "Vicente",
	"Florencia", "Agustin", "Antonia", "Tomas", "Catalina", "Diego",
}

var lastNames = []string{
	"Gonzalez", "Munoz", "Rojas", "Diaz", "Perez", "Soto",
	"Contreras", "Silva", "Martinez", "Sepulveda", "Morales", "Rodriguez",
}

func main() {
	numUsers := flag.Int("users", 30, "number of generated users to seed in addition to the admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	adminHash, err := password.Hash(adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}

	admin := &domain.User{
		Name:         "Admin",
		Lastname:     "Principal",
		Email:        adminEmail,
		PasswordHash: adminHash,
		Role:         domain.RoleAdmin,
		State:        true,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			log.Info().Str("email", adminEmail).Msg("admin already seeded, skipping")
		} else {
			log.Fatal().Err(err).Msg("failed to seed admin")
		}
	} else {
		log.Info().Str("email", adminEmail).Msg("admin seeded")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seeded := 0
	for i := 0; i < *numUsers; i++ {
		name := firstNames[rng.Intn(len(firstNames))]
		lastname := lastNames[rng.Intn(len(lastNames))]
		email := strings.ToLower(fmt.Sprintf("%s.%s%d@perlametro.cl", name, lastname, rng.Intn(100000)))

		hash, err := password.Hash(randomPassword(rng))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash generated password")
		}

		user := &domain.User{
			Name:         name,
			Lastname:     lastname,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleUser,
			State:        true,
			RegisteredAt: time.Now().UTC().Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
		}
		if _, err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				continue
			}
			log.Fatal().Err(err).Msg("failed to seed user")
		}
		seeded++
	}

	log.Info().Int("users", seeded).Msg("seeding complete")
}

// randomPassword generates a throwaway password satisfying the complexity
// policy. Seeded accounts are never meant to be logged into.
func randomPassword(rng *rand.Rand) string {
	const chars = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 8)
	for i := range b {
		b[i] = chars[rng.Intn(len(chars))]
	}
	return "Aa1!" + string(b)
}
