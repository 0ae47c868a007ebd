// token выпускает JWT для ручной проверки HTTP API.
//
//	JWT_SECRET=... go run ./cmd/token --user <uuid> --role student
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/auth"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var userID, role, secret string
	var ttl time.Duration

	_ = godotenv.Load(".env")

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVarP(&userID, "user", "u", "", "profile id (uuid)")
	flagSet.StringVarP(&role, "role", "r", string(model.RoleStudent), "student or tutor")
	flagSet.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flagSet.StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if secret == "" {
		return errors.New("signing secret is empty, set JWT_SECRET or --secret")
	}

	token, err := auth.NewTokenResolver(secret, ttl).Issue(model.Identity{
		UserID: userID,
		Role:   model.Role(role),
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
