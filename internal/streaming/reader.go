// Package streaming содержит HTTP ридер для скачивания аудиофайлов по прямой ссылке
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// DefaultBufferSize размер буфера чтения
const DefaultBufferSize = 256 * 1024

// NewClient создает HTTP клиент без общего таймаута для длительного скачивания
func NewClient() *http.Client {
	return &http.Client{
		// Убираем общий таймаут, оставляем только таймауты соединения
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       300 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Reader представляет буферизованный поток ответа HTTP
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
}

// NewReader выполняет GET запрос и возвращает ридер тела ответа
func NewReader(ctx context.Context, client *http.Client, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity")  // Отключаем сжатие для потока
	req.Header.Set("User-Agent", "go-jukebox/1.0") // Идентифицируем клиент

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// ContentType возвращает заголовок Content-Type ответа
func (sr *Reader) ContentType() string {
	return sr.resp.Header.Get("Content-Type")
}

// ContentLength возвращает размер тела ответа или -1
func (sr *Reader) ContentLength() int64 {
	return sr.resp.ContentLength
}
