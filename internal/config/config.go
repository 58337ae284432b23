// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-jukebox/internal/utils"
)

// Значения по умолчанию
const (
	DefaultDownloadDir  = "downloads"
	DefaultWorkers      = 2
	DefaultFFmpegPath   = "ffmpeg"
	DefaultAudioBitrate = "192k"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	DownloadDir  string `yaml:"download_dir"`
	Workers      int    `yaml:"workers"`
	FFmpegPath   string `yaml:"ffmpeg_path"`
	AudioBitrate string `yaml:"audio_bitrate"`
	WriteTags    bool   `yaml:"write_tags"` // записывать ID3 теги в скачанные файлы

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
	S3Mirror      bool   `yaml:"s3_mirror"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		DownloadDir:  DefaultDownloadDir,
		Workers:      DefaultWorkers,
		FFmpegPath:   DefaultFFmpegPath,
		AudioBitrate: DefaultAudioBitrate,
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, возвращается конфигурация по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		data = nil
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора yaml конфигурации: %w", err)
		}
	}

	// Устанавливаем значения по умолчанию, если они не заданы
	if config.DownloadDir == "" {
		config.DownloadDir = DefaultDownloadDir
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.FFmpegPath == "" {
		config.FFmpegPath = DefaultFFmpegPath
	}
	if config.AudioBitrate == "" {
		config.AudioBitrate = DefaultAudioBitrate
	}

	// Раскрываем тильду в пути загрузки
	if config.DownloadDir, err = utils.ExpandHome(config.DownloadDir); err != nil {
		return nil, err
	}

	return config, nil
}

// S3Enabled сообщает, заданы ли параметры S3 хранилища
func (c *Config) S3Enabled() bool {
	return c.AwsBucketName != "" && c.AwsRegion != ""
}

// EnsureDownloadDir создает директорию загрузок, если она отсутствует
func (c *Config) EnsureDownloadDir() error {
	if err := os.MkdirAll(c.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания директории загрузок: %w", err)
	}
	return nil
}
