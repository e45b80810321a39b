package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"encore.app/idempotency"
	"encore.app/idempotency/accesscache/pgstore"
)

const (
	dsnKey    = "dsn"
	prefixKey = "prefix"
)

// entryStore is the part of pgstore.Store the commands use.
type entryStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Keys(ctx context.Context, prefix string, limit int32) ([]string, error)
	Remove(ctx context.Context, key string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// opener connects to the store named by dsn. The returned func releases it.
type opener func(ctx context.Context, dsn string) (entryStore, func(), error)

func openPostgres(ctx context.Context, dsn string) (entryStore, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return pgstore.New(pool), pool.Close, nil
}

type cliConfig struct {
	v    *viper.Viper
	open opener
}

func (c *cliConfig) prefix() string {
	return c.v.GetString(prefixKey)
}

// store opens the configured store for one command run.
func (c *cliConfig) store(ctx context.Context) (entryStore, func(), error) {
	dsn := strings.TrimSpace(c.v.GetString(dsnKey))
	if dsn == "" {
		return nil, nil, errors.New("no database configured, set --dsn or IDEMCTL_DSN")
	}
	return c.open(ctx, dsn)
}

func newRootCommand(open opener) *cobra.Command {
	cfg := &cliConfig{v: viper.New(), open: open}

	cmd := &cobra.Command{
		Use:           "idemctl",
		Short:         "Inspect and maintain idempotency entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String(dsnKey, "", "Postgres connection string")
	flags.String(prefixKey, idempotency.DefaultCacheKeysPrefix, "prefix prepended to idempotency keys")

	mustBindFlag(cfg.v, dsnKey, "IDEMCTL_DSN", flags.Lookup(dsnKey))
	mustBindFlag(cfg.v, prefixKey, "IDEMCTL_PREFIX", flags.Lookup(prefixKey))

	cmd.AddCommand(
		newInspectCommand(cfg),
		newListCommand(cfg),
		newRemoveCommand(cfg),
		newPurgeCommand(cfg),
	)
	return cmd
}

func mustBindFlag(v *viper.Viper, key, env string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("flag for key %s not found", key))
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
	if err := v.BindEnv(key, env); err != nil {
		panic(err)
	}
}
