package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/api"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const tokenBytes = 32

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx := context.Background()

	var err error

	switch command {
	case "create-user":
		err = runCreateUser(ctx, args)
	case "issue":
		err = runIssue(ctx, args)
	case "revoke":
		err = runRevoke(ctx, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  create-user -email <email>            register a user, print its ID
  issue -user <user-id> [-label <s>]    mint an API token, print it once
  revoke -user <user-id> -token <tok>   revoke a token
`, os.Args[0])
}

func runCreateUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	email := fs.String("email", "", "User email")
	dsn := fs.String("dsn", os.Getenv("POSTGRES_DSN"), "Postgres DSN")
	_ = fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	database, err := connect(ctx, *dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := database.CreateUser(ctx, *email)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("created user %s (%s)\n", user.ID, user.Email)

	return nil
}

func runIssue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("issue", flag.ExitOnError)
	userID := fs.String("user", "", "Owning user ID")
	label := fs.String("label", "", "Token label")
	dsn := fs.String("dsn", os.Getenv("POSTGRES_DSN"), "Postgres DSN")
	_ = fs.Parse(args)

	if *userID == "" {
		return fmt.Errorf("-user is required")
	}

	database, err := connect(ctx, *dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	if _, err := database.GetUser(ctx, *userID); err != nil {
		return fmt.Errorf("verify user: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return err
	}

	if err := database.CreateToken(ctx, *userID, api.HashToken(token), *label); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	// Only the hash is stored, so this is the one chance to see it.
	fmt.Printf("token: %s\n", token)

	return nil
}

func runRevoke(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ExitOnError)
	userID := fs.String("user", "", "Owning user ID")
	token := fs.String("token", "", "Token to revoke")
	dsn := fs.String("dsn", os.Getenv("POSTGRES_DSN"), "Postgres DSN")
	_ = fs.Parse(args)

	if *userID == "" || *token == "" {
		return fmt.Errorf("-user and -token are required")
	}

	database, err := connect(ctx, *dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.RevokeToken(ctx, *userID, api.HashToken(*token)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	fmt.Println("token revoked")

	return nil
}

func connect(ctx context.Context, dsn string) (*db.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required (or provide -dsn)")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	database, err := db.New(ctx, dsn, &logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return database, nil
}

// newToken returns a fresh random bearer token as hex.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
