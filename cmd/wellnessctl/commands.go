package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/campus-wellness-api/internal/adapter/identity"
	"github.com/arturoeanton/campus-wellness-api/internal/adapter/store"
	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

var (
	bootstrapName  string
	bootstrapEmail string
	tokenRole      string
	tokenName      string
	tokenEmail     string
	cleanupDays    int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("schema up to date")
		return nil
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap-superadmin <uid>",
	Short: "Create the single Super Admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserService(cmd.Context(), func(users *service.UserService) error {
			if err := users.BootstrapSuperAdmin(cmd.Context(), args[0], bootstrapName, bootstrapEmail); err != nil {
				return err
			}
			fmt.Printf("%s is now Super Admin\n", args[0])
			return nil
		})
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token <uid>",
	Short: "Print a signed bearer token for uid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := domain.ParseRole(tokenRole)
		if !ok {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		// Signing needs no claim store; Verify is never called here.
		idp := identity.NewJWTProvider(jwtConfig(), nil)
		token, err := idp.IssueToken(args[0], role, tokenName, tokenEmail)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete audit logs and counselor alerts past retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanupDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		db, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		cutoff := time.Now().UTC().AddDate(0, 0, -cleanupDays)
		logs, alerts, err := db.PruneBefore(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d audit logs and %d alerts older than %s\n", logs, alerts, cutoff.Format(time.DateOnly))
		return nil
	},
}

var syncClaimsCmd = &cobra.Command{
	Use:   "sync-claims",
	Short: "Push pending role claims to the claim store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserService(cmd.Context(), func(users *service.UserService) error {
			n, err := users.SyncPendingClaims(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("synced %d pending claims\n", n)
			return nil
		})
	},
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapName, "name", "", "display name")
	bootstrapCmd.Flags().StringVar(&bootstrapEmail, "email", "", "email address")

	issueTokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleStudent), "role claim")
	issueTokenCmd.Flags().StringVar(&tokenName, "name", "", "name claim")
	issueTokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")

	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 90, "retention in days")
}

func jwtConfig() identity.Config {
	return identity.Config{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		ExpiresIn: time.Duration(cfg.JWTExpiration) * time.Hour,
	}
}

// withUserService opens the database and Redis for the duration of fn.
func withUserService(ctx context.Context, fn func(*service.UserService) error) error {
	db, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	idp := identity.NewJWTProvider(jwtConfig(), rdb)
	users := service.NewUserService(db, idp, db,
		service.NewRolePolicy(cfg.AdminCap, cfg.ModeratorCap), cfg.ClaimSyncMaxTries)
	return fn(users)
}
