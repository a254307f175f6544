// Package admin implements the pagetalk-admin command line: schema
// migrations and account management run directly against the database.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/pagetalk/internal/netx"
	"github.com/dmitrijs2005/pagetalk/internal/server/config"
	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pagetalk/internal/server/services"
	"github.com/spf13/cobra"
)

var (
	openDB = repomanager.Open

	uploadAvatar = netx.PutToPresignedURL

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type rootOptions struct {
	configPath string
	dsn        string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "pagetalk-admin",
		Short:         "Administer a pagetalk installation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a JSON or YAML config file")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "database DSN, overrides the config")

	root.AddCommand(newMigrateCmd(opts), newUserCmd(opts), newSessionsCmd(opts))
	return root
}

func (o *rootOptions) load() *config.Config {
	var args []string
	if o.configPath != "" {
		args = []string{"-c", o.configPath}
	}
	cfg := config.Load(args)
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}
	return cfg
}

// withDB opens the database named by the config, runs fn and closes it.
func (o *rootOptions) withDB(ctx context.Context, fn func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error) error {
	cfg := o.load()

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	return fn(cfg, db, newRepoManager())
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd.Context(), func(_ *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
				if err := rm.RunMigrations(cmd.Context(), db); err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newUserCmd(opts *rootOptions) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var (
		name          string
		passwordStdin bool
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Create a user account.

The password is read from the terminal twice, or once from standard input
when --password-stdin is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			creds := forms.Credentials{Name: name, Password: password}
			if err := creds.Validate(); err != nil {
				return err
			}

			return opts.withDB(cmd.Context(), func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
				user, err := services.NewUserService(db, rm, cfg).Register(cmd.Context(), creds.Name, creds.Password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Name, user.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "login name")
	createCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	_ = createCmd.MarkFlagRequired("name")

	userCmd.AddCommand(createCmd, newAvatarCmd(opts))
	return userCmd
}

func newAvatarCmd(opts *rootOptions) *cobra.Command {
	var name, file string

	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Upload an avatar image for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			return opts.withDB(cmd.Context(), func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
				user, err := rm.Users(db).GetByName(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("user %q: %w", name, err)
				}

				avatars := services.NewAvatarService(db, rm, cfg)
				upload, err := avatars.PresignUpload(cmd.Context(), user.ID)
				if err != nil {
					return err
				}

				if err := uploadAvatar(cmd.Context(), upload.UploadURL, http.DetectContentType(data), data); err != nil {
					return err
				}

				imageURL, err := avatars.ConfirmUpload(cmd.Context(), user.ID, upload.Key)
				if err != nil {
					return fmt.Errorf("confirm upload: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "avatar of %s stored at %s\n", user.Name, imageURL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "login name")
	cmd.Flags().StringVar(&file, "file", "", "image file to upload")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}

	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd.Context(), func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
				n, err := services.NewUserService(db, rm, cfg).PurgeExpiredSessions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", n)
				return nil
			})
		},
	})

	return sessionsCmd
}
