// Package s3 копирует готовые треки в S3 совместимое хранилище
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrNotConfigured не задан бакет или регион
var ErrNotConfigured = errors.New("хранилище S3 не настроено")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// API часть s3manager.Uploader, которой мы пользуемся
type API interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Uploader загружает файлы в один бакет
type Uploader struct {
	api    API
	config Config
}

// NewUploader создает новый S3 uploader
func NewUploader(config Config) (*Uploader, error) {
	if config.BucketName == "" || config.Region == "" {
		return nil, ErrNotConfigured
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	// Без ключей SDK берет учетные данные из окружения
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return NewUploaderWithAPI(config, s3manager.NewUploader(sess)), nil
}

// NewUploaderWithAPI создает uploader поверх готового клиента
func NewUploaderWithAPI(config Config, api API) *Uploader {
	return &Uploader{api: api, config: config}
}

// Bucket возвращает имя бакета
func (u *Uploader) Bucket() string {
	return u.config.BucketName
}

// UploadFile загружает содержимое reader под ключом key и возвращает URL объекта
func (u *Uploader) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	out, err := u.api.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	if out != nil && out.Location != "" {
		return out.Location, nil
	}
	return u.ObjectURL(key), nil
}

// ObjectURL формирует URL объекта, если SDK его не вернул
func (u *Uploader) ObjectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if u.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.config.Endpoint, "/"), u.config.BucketName, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.BucketName, u.config.Region, escaped)
}
