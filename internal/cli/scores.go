package cli

import (
	"os"

	"trivia-rush/internal/config"
	"trivia-rush/internal/infra/file"
	infraredis "trivia-rush/internal/infra/redis"
	"trivia-rush/internal/scoreboard"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewScoresCmd builds subcommands to inspect and reset the persisted scoreboard.
func NewScoresCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Manage the persisted scoreboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scoreboard entries, best score first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := scoreStoreFromConfig(*configPath)
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			printScores(os.Stdout, entries)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear all scoreboard entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := scoreStoreFromConfig(*configPath)
			if err != nil {
				return err
			}
			return store.Clear(cmd.Context())
		},
	})
	return cmd
}

func scoreStoreFromConfig(configPath string) (*scoreboard.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Config{}
	}
	var kv scoreboard.KV
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = infraredis.NewKV(client, "trivia:")
	} else {
		kv = file.NewKV(scoreboardDir(cfg))
	}
	return scoreboard.NewStore(kv), nil
}
