package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"boty-storefront/internal/app"
	"boty-storefront/internal/auth"
	"boty-storefront/internal/config"
	"boty-storefront/internal/model"
	"boty-storefront/internal/repository"
	"boty-storefront/internal/service"
)

const defaultAdminName = "Admin Izza"

type seedAdminOptions struct {
	email    string
	password string
	name     string
}

func seedAdminCmd() *cobra.Command {
	var opts seedAdminOptions

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or reset the admin account",
		Long: `Create the admin account, or reset the password of an existing one.

Flags default to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME. When no
password is given and stdin is a terminal, it is prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeedAdmin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email (default $ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password, min 8 characters (default $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name (default $ADMIN_NAME)")

	return cmd
}

func runSeedAdmin(cmd *cobra.Command, opts seedAdminOptions) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{RequireAuthSecret: false})
	if err != nil {
		return err
	}
	setupLogger(cfg)

	// Read after the config load so values from .env files apply.
	opts = opts.withEnvDefaults()

	email := strings.ToLower(strings.TrimSpace(opts.email))
	if email == "" {
		return errors.New("--email or ADMIN_EMAIL is required")
	}

	password := opts.password
	if password == "" {
		if password, err = promptPassword(cmd); err != nil {
			return err
		}
	}

	if err := service.ValidateLogin(model.LoginRequest{Email: email, Password: password}); err != nil {
		return fmt.Errorf("invalid admin credentials: %w", err)
	}

	name := strings.TrimSpace(opts.name)
	if name == "" {
		name = defaultAdminName
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	connector := app.NewConnector(cfg)
	defer connector.Close()

	account, created, err := repository.NewAccountRepository(connector).UpsertAdmin(ctx, name, email, hash)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}

	if created {
		slog.Info("admin created", "email", account.Email, "admin_id", account.ID)
	} else {
		slog.Info("admin updated", "email", account.Email, "admin_id", account.ID)
	}
	return nil
}

func (o seedAdminOptions) withEnvDefaults() seedAdminOptions {
	if o.email == "" {
		o.email = os.Getenv("ADMIN_EMAIL")
	}
	if o.password == "" {
		o.password = os.Getenv("ADMIN_PASSWORD")
	}
	if o.name == "" {
		o.name = os.Getenv("ADMIN_NAME")
	}
	return o
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password provided (use --password or ADMIN_PASSWORD)")
	}

	cmd.Print("Password: ")
	first, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", err
	}

	cmd.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
