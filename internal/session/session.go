// Package session хранит состояние приложения: плейлист, воспроизведение и строку статуса.
// Session изменяется только из горутины интерфейса, фоновые загрузки передают результат событиями.
package session

import (
	"errors"
	"log"

	"github.com/hazadus/go-jukebox/internal/downloader"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/track"
)

// Тексты строки статуса
const (
	StatusReady       = "Ready"
	StatusEnterURL    = "Enter a URL first."
	StatusDownloading = "Downloading..."
	StatusSongAdded   = "Song added!"
	StatusEmpty       = "Playlist empty."
	StatusCannotPlay  = "Could not play audio."
	StatusPaused      = "Paused"
	StatusPlaying     = "Playing"
	StatusShuffled    = "Shuffled!"

	errorPrefix   = "Error: "
	playingPrefix = "Playing: "
)

// ErrNoDownloads сессия создана без сервиса загрузок
var ErrNoDownloads = errors.New("загрузки недоступны")

// Submitter принимает URL для фоновой загрузки
type Submitter interface {
	Submit(url string) (string, error)
}

// Entry строка отфильтрованного списка с индексом в плейлисте
type Entry struct {
	Index int
	Track track.Track
}

// Session состояние приложения
type Session struct {
	tracks    *track.Manager
	player    *playback.Controller
	downloads Submitter

	status  string
	pending int
	query   string
}

// New создает сессию
func New(tracks *track.Manager, player *playback.Controller, downloads Submitter) *Session {
	return &Session{
		tracks:    tracks,
		player:    player,
		downloads: downloads,
		status:    StatusReady,
	}
}

// Status текст последнего результата
func (s *Session) Status() string { return s.status }

// Pending сколько загрузок еще не вернули результат
func (s *Session) Pending() int { return s.pending }

// Tracks плейлист
func (s *Session) Tracks() *track.Manager { return s.tracks }

// Player контроллер воспроизведения
func (s *Session) Player() *playback.Controller { return s.player }

// Submit отправляет URL на загрузку. Пустой URL только меняет статус.
func (s *Session) Submit(url string) string {
	if s.downloads == nil {
		return s.setError(ErrNoDownloads)
	}
	if _, err := s.downloads.Submit(url); err != nil {
		if errors.Is(err, downloader.ErrValidation) {
			return s.setStatus(StatusEnterURL)
		}
		return s.setError(err)
	}
	s.pending++
	return s.setStatus(StatusDownloading)
}

// HandleEvent применяет результат фоновой загрузки
func (s *Session) HandleEvent(event downloader.Event) string {
	if s.pending > 0 {
		s.pending--
	}
	if !event.OK() {
		return s.setError(event.Err)
	}

	s.tracks.Append(track.New(event.Path))
	if event.MirrorURL != "" {
		log.Printf("трек скопирован в хранилище: %s", event.MirrorURL)
	}
	return s.setStatus(StatusSongAdded)
}

// SetFilter задает строку поиска
func (s *Session) SetFilter(query string) {
	s.query = query
}

// Filter текущая строка поиска
func (s *Session) Filter() string { return s.query }

// Visible возвращает треки, подходящие под строку поиска
func (s *Session) Visible() []Entry {
	var entries []Entry
	for i, t := range s.tracks.Filter(s.query) {
		entries = append(entries, Entry{Index: i, Track: t})
	}
	return entries
}

// PlayIndex запускает трек по индексу в плейлисте
func (s *Session) PlayIndex(index int) string {
	if s.tracks.Len() == 0 {
		return s.setStatus(StatusEmpty)
	}
	return s.playResult(s.player.SelectAndPlay(index))
}

// TogglePlayPause ставит на паузу или продолжает воспроизведение
func (s *Session) TogglePlayPause() string {
	started := s.player.Handle() == nil

	if err := s.player.TogglePlayPause(); err != nil {
		return s.playResult(err)
	}
	if started {
		return s.playResult(nil)
	}
	if s.player.State() == playback.Paused {
		return s.setStatus(StatusPaused)
	}
	return s.setStatus(StatusPlaying)
}

// Next следующий трек. На пустом плейлисте ничего не происходит.
func (s *Session) Next() string {
	return s.step(s.player.Next)
}

// Previous предыдущий трек
func (s *Session) Previous() string {
	return s.step(s.player.Previous)
}

func (s *Session) step(move func() error) string {
	err := move()
	if errors.Is(err, playback.ErrEmptyPlaylist) {
		return s.status
	}
	return s.playResult(err)
}

// Shuffle перемешивает плейлист
func (s *Session) Shuffle() string {
	s.player.Shuffle()
	return s.setStatus(StatusShuffled)
}

// Close останавливает воспроизведение
func (s *Session) Close() {
	s.player.Close()
}

func (s *Session) playResult(err error) string {
	switch {
	case err == nil:
		t, _ := s.player.Current()
		return s.setStatus(playingPrefix + t.DisplayName())
	case errors.Is(err, playback.ErrEmptyPlaylist):
		return s.setStatus(StatusEmpty)
	case errors.Is(err, playback.ErrLoad):
		log.Printf("ошибка воспроизведения: %v", err)
		return s.setStatus(StatusCannotPlay)
	default:
		return s.setError(err)
	}
}

func (s *Session) setError(err error) string {
	return s.setStatus(errorPrefix + err.Error())
}

func (s *Session) setStatus(text string) string {
	s.status = text
	return text
}
