package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/config"
	"github.com/amirphl/studio-hiring-api/repository"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "studio-api",
		Short:         "Hiring and contact backend for the studio website",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newAdminCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadProductionConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServer(cfg)
		},
	}
}

// newSeedCmd creates the bootstrap super-admin from ADMIN_DEFAULT_* when no
// account exists yet
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default super-admin if no admin exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeFn, accounts, err := openAccountFlow()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			created, err := accounts.EnsureDefaultAdmin(ctx, defaultAdminConfig(cfg))
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Created default super-admin %q\n", cfg.Admin.DefaultUsername)
			} else {
				fmt.Println("Admin accounts already exist; nothing to do")
			}
			return nil
		},
	}
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Example: `  studio-api admin create --username editor --email editor@studio.example
  studio-api admin create --username root --email root@studio.example --role super-admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			_, closeFn, accounts, err := openAccountFlow()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			admin, err := accounts.Provision(ctx, &dto.CreateAdminRequest{
				Username: username,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				if fields := businessflow.ValidationFields(err); len(fields) > 0 {
					for _, f := range fields {
						fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Field, f.Message)
					}
				}
				return err
			}

			fmt.Printf("Created %s %q (%s)\n", admin.Role, admin.Username, admin.UUID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&role, "role", "admin", "Role: admin or super-admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

// openAccountFlow connects and migrates the database for one-shot commands
func openAccountFlow() (*config.ProductionConfig, func(), businessflow.AdminAccountFlow, error) {
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if err := repository.Migrate(db); err != nil {
		closeFn()
		return nil, nil, nil, err
	}

	adminRepo := repository.NewAdminRepository(db, cfg.Security.BcryptCost)
	log.SetLevel(log.WarnLevel)
	return cfg, closeFn, businessflow.NewAdminAccountFlow(adminRepo), nil
}

func defaultAdminConfig(cfg *config.ProductionConfig) businessflow.DefaultAdminConfig {
	return businessflow.DefaultAdminConfig{
		Username: cfg.Admin.DefaultUsername,
		Email:    cfg.Admin.DefaultEmail,
		Password: cfg.Admin.DefaultPassword,
	}
}
