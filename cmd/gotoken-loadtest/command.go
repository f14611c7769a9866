package main

import (
	"errors"
	"fmt"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/internal/envconfig"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	keyPairs       = "loadtest.pairs"
	keyConcurrency = "loadtest.concurrency"
	keyOps         = "loadtest.ops"
	keyRaceWidth   = "loadtest.race_width"
	keyRaceRounds  = "loadtest.race_rounds"
)

type options struct {
	pairs       int
	concurrency int
	ops         int
	raceWidth   int
	raceRounds  int
}

func (o options) validate() error {
	if o.pairs <= 0 || o.concurrency <= 0 || o.ops <= 0 {
		return errors.New("pairs, concurrency, and ops must be > 0")
	}
	if o.raceWidth < 2 || o.raceRounds <= 0 {
		return errors.New("race-width must be >= 2 and race-rounds > 0")
	}
	return nil
}

func newRootCommand() *cobra.Command {
	v := envconfig.New()
	v.SetDefault(keyPairs, 10000)
	v.SetDefault(keyConcurrency, 128)
	v.SetDefault(keyOps, 100000)
	v.SetDefault(keyRaceWidth, 16)
	v.SetDefault(keyRaceRounds, 200)
	v.SetDefault(envconfig.KeyLogLevel, "warn")

	cmd := &cobra.Command{
		Use:           "gotoken-loadtest",
		Short:         "Hammer issue, verify, and refresh against a revocation store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.Int("pairs", 10000, "token pairs to seed")
	flags.Int("concurrency", 128, "concurrent workers per phase")
	flags.Int("ops", 100000, "operations per phase")
	flags.Int("race-width", 16, "goroutines racing to refresh the same token")
	flags.Int("race-rounds", 200, "tokens raced in the single-use phase")
	flags.String("redis-addr", "", "redis address; miniredis when empty")
	flags.String("log-level", "warn", "zap log level")

	for key, flag := range map[string]string{
		keyPairs:               "pairs",
		keyConcurrency:         "concurrency",
		keyOps:                 "ops",
		keyRaceWidth:           "race-width",
		keyRaceRounds:          "race-rounds",
		envconfig.KeyRedisAddr: "redis-addr",
		envconfig.KeyLogLevel:  "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	opts := options{
		pairs:       v.GetInt(keyPairs),
		concurrency: v.GetInt(keyConcurrency),
		ops:         v.GetInt(keyOps),
		raceWidth:   v.GetInt(keyRaceWidth),
		raceRounds:  v.GetInt(keyRaceRounds),
	}
	if err := opts.validate(); err != nil {
		return err
	}

	settings, err := envconfig.Load(v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := settings.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	addr := settings.RedisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start miniredis: %w", err)
		}
		defer mr.Close()
		addr = mr.Addr()
		cmd.Printf("using miniredis at %s\n", addr)
	} else {
		cmd.Printf("using redis at %s\n", addr)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{addr},
		Password: settings.RedisPassword,
		DB:       settings.RedisDB,
	})
	defer func() { _ = client.Close() }()

	manager, err := goToken.New().
		WithConfig(settings.Token).
		WithRedis(client).
		WithLogger(logger).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		return err
	}
	defer manager.Close()

	ctx := cmd.Context()
	if _, err := manager.Ping(ctx); err != nil {
		return err
	}

	lt := &loadTest{manager: manager, opts: opts, logger: logger}
	report, err := lt.Run(ctx)
	if err != nil {
		return err
	}

	cmd.Println("---- results ----")
	for _, s := range report.phases {
		cmd.Println(s.String())
	}
	cmd.Printf("single-use: rounds=%d winners=%d violations=%d\n", report.raceRounds, report.raceWinners, report.raceViolations)

	if report.raceViolations > 0 {
		logger.Error("refresh single-use violated", zap.Int64("violations", report.raceViolations))
		return fmt.Errorf("%d refresh tokens were redeemed more than once", report.raceViolations)
	}
	return nil
}
