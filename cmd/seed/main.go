package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/logging"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir     string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load CSV fixtures into the database",
		Long: `Loads users.csv, category.csv, genre.csv, titles.csv, genre_title.csv,
review.csv and comments.csv from a directory, keeping their ids.
Missing files are skipped.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

			gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if migrate {
				if err := db.Migrate(gormDB); err != nil {
					return err
				}
			}

			importer := service.NewImporter(repository.NewImportRepository(gormDB), log)
			summary, err := importer.Run(cmd.Context(), os.DirFS(dir))
			if err != nil {
				log.WithError(err).Error("seed failed")
				return err
			}
			log.WithFields(logrus.Fields{"dir": dir, "rows": summary}).Info("seed completed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "static/data", "directory holding the CSV files")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before loading")
	return cmd
}
