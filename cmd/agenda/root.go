package main

import (
	"fmt"

	"github.com/dfryer1193/agenda/contacts/application"
	"github.com/dfryer1193/agenda/contacts/assets"
	"github.com/dfryer1193/agenda/contacts/persistence"
	"github.com/dfryer1193/agenda/internal/config"
	"github.com/dfryer1193/agenda/internal/logutil"
	"github.com/dfryer1193/agenda/shared/db"
	"github.com/dfryer1193/agenda/shared/db/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "agenda",
		Short:        "Personal contact book",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().String("log-format", "", "Logging format: console|json.")
	cmd.PersistentFlags().String("db", "", "Path of the SQLite contact database.")
	cmd.PersistentFlags().String("images-dir", "", "Directory holding managed contact images.")

	_ = v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag("images.dir", cmd.PersistentFlags().Lookup("images-dir"))

	env := &environment{viper: v}
	cmd.AddCommand(
		newServeCmd(env),
		newListCmd(env),
		newShowCmd(env),
		newAddCmd(env),
		newUpdateCmd(env),
		newDeleteCmd(env),
		newGCCmd(env),
		newExportCmd(env),
	)

	return cmd
}

// environment builds the configured service for a subcommand.
type environment struct {
	viper    *viper.Viper
	cfg      *config.Config
	database db.Database
}

// open loads configuration, sets up logging and connects the contact service.
// The caller must call close when done.
func (e *environment) open(cmd *cobra.Command) (*application.ContactService, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(e.viper, path)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg

	if err := logutil.Setup(cfg.Logging); err != nil {
		return nil, err
	}

	e.database = sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.Database.Path})
	if err := e.database.Connect(); err != nil {
		return nil, fmt.Errorf("failed to open contact database: %w", err)
	}

	images := assets.NewImageStore(assets.Config{
		Dir:           cfg.Images.Dir,
		DefaultAvatar: cfg.Images.DefaultAvatar,
		ThumbnailSize: cfg.Images.ThumbnailSize,
	})
	repo := persistence.NewContactRepository(e.database.DB(), cfg.Images.DefaultAvatar)

	return application.NewContactService(repo, images), nil
}

func (e *environment) close() {
	if e.database != nil {
		_ = e.database.Close()
	}
}
