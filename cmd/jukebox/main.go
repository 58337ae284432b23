package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/go-jukebox/internal/config"
	"github.com/hazadus/go-jukebox/internal/downloader"
	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/s3"
	"github.com/hazadus/go-jukebox/internal/source"
	"github.com/hazadus/go-jukebox/internal/streaming"
	"github.com/hazadus/go-jukebox/internal/transcode"
	"github.com/hazadus/go-jukebox/internal/uploader"
	"github.com/hazadus/go-jukebox/internal/youtube"
)

const (
	defaultConfigPath = "~/.jukebox"
	configPathEnv     = "JUKEBOX_CONFIG"
)

// Application хранит конфигурацию и зависимости, общие для всех команд
type Application struct {
	Config *config.Config

	// Переопределяются в тестах
	resolver   downloader.Resolver
	transcoder downloader.Transcoder
	storage    uploader.Storage
}

func main() {
	configPath := defaultConfigPath
	if path := os.Getenv(configPathEnv); path != "" {
		configPath = path
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	app := &Application{Config: cfg}

	// Контекст процесса отменяется по Ctrl+C и SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.createRootCommand(ctx).ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

// newResolver возвращает цепочку источников: YouTube и прямые ссылки
func (app *Application) newResolver() downloader.Resolver {
	if app.resolver != nil {
		return app.resolver
	}
	return source.Chain{
		youtube.NewResolver(),
		streaming.NewResolver(streaming.NewClient()),
	}
}

func (app *Application) newTranscoder() downloader.Transcoder {
	if app.transcoder != nil {
		return app.transcoder
	}
	return transcode.NewFFmpeg(app.Config.FFmpegPath, app.Config.AudioBitrate)
}

// newStorage создает сервис загрузки в S3 по настройкам конфигурации
func (app *Application) newStorage() (*uploader.Service, error) {
	if app.storage != nil {
		return uploader.NewService(app.storage), nil
	}

	s3Uploader, err := s3.NewUploader(s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
	if err != nil {
		return nil, err
	}
	return uploader.NewService(s3Uploader), nil
}

// newDownloader создает сервис загрузок и директорию для треков
func (app *Application) newDownloader(ctx context.Context) (*downloader.Service, error) {
	if err := app.Config.EnsureDownloadDir(); err != nil {
		return nil, err
	}

	opts := downloader.Options{
		Dir:     app.Config.DownloadDir,
		Workers: app.Config.Workers,
	}
	if app.Config.WriteTags {
		opts.Tagger = metadata.NewWriter()
	}
	if app.Config.S3Mirror {
		storage, err := app.newStorage()
		if err != nil {
			return nil, fmt.Errorf("ошибка настройки зеркалирования: %w", err)
		}
		opts.Mirror = storage
	}

	return downloader.NewService(ctx, app.newResolver(), app.newTranscoder(), opts), nil
}
