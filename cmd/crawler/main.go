// Command crawler transcribes the recent uploads of a YouTube channel
// and optionally emails a summary of the results.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ytscribe/auth"
	"ytscribe/config"
	"ytscribe/downloader"
	"ytscribe/logger"
	"ytscribe/mailer"
	"ytscribe/repository"
	"ytscribe/repository/postgres"
	"ytscribe/repository/sqlite"
	"ytscribe/services/channel"
	"ytscribe/services/video"
	"ytscribe/transcriber"

	"github.com/spf13/cobra"
)

var (
	flagChannel string
	flagLimit   int
	flagEmail   string
	flagAPIKey  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crawler",
		Short: "Transcribe a YouTube channel's recent uploads",
		RunE:  run,
	}

	rootCmd.Flags().StringVar(&flagChannel, "channel", "", "channel URL to crawl (required)")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of recent uploads to process")
	rootCmd.Flags().StringVar(&flagEmail, "email", "", "send a summary email to this address")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Deepgram API key (defaults to DEEPGRAM_API_KEY)")
	_ = rootCmd.MarkFlagRequired("channel")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Setup(cfg.LogDir, cfg.Debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	// The crawler seeds the admin credential too, so a fresh database
	// works for both binaries.
	authn := auth.NewAuthenticator(repo, auth.NewSessionStore(cfg.Admin.SessionTTL))
	if err := authn.SeedUser(cmd.Context(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	dl := downloader.New(downloader.Config{
		BinPath: cfg.Download.BinPath,
		Timeout: cfg.Download.Timeout,
	})

	provider := transcriber.NewDeepgram(transcriber.Config{
		APIKey:            cfg.Deepgram.APIKey,
		Model:             cfg.Deepgram.Model,
		Language:          cfg.Deepgram.Language,
		Timeout:           cfg.Deepgram.Timeout,
		RequestsPerMinute: cfg.Deepgram.RequestsPerMinute,
	})

	videoService := video.NewService(repo, dl, provider, nil, video.Config{
		AudioDir:      cfg.AudioDir,
		DefaultAPIKey: cfg.Deepgram.APIKey,
	})

	svc := channel.NewService(dl, videoService, mailer.New(cfg.SMTP))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Process(ctx, channel.Request{
		ChannelURL: flagChannel,
		Limit:      flagLimit,
		Email:      flagEmail,
		APIKey:     flagAPIKey,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func openRepository(cfg *config.Config) (repository.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.InitDB(postgres.Config{
			Host:     cfg.Database.PostgresHost,
			Port:     cfg.Database.PostgresPort,
			Database: cfg.Database.PostgresDB,
			User:     cfg.Database.PostgresUser,
			Password: cfg.Database.PostgresPassword,
			SSLMode:  cfg.Database.PostgresSSLMode,
		})
		if err != nil {
			return nil, err
		}
		return postgres.NewRepository(db)
	default:
		db, err := sqlite.InitDB(sqlite.DefaultConfig(cfg.Database.Path))
		if err != nil {
			return nil, err
		}
		return sqlite.NewRepository(db)
	}
}
