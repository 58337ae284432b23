// Package playback содержит контроллер воспроизведения плейлиста
package playback

import (
	"errors"
	"fmt"

	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/track"
)

var (
	// ErrIndex индекс выбора вне плейлиста
	ErrIndex = errors.New("индекс трека вне диапазона")
	// ErrLoad движок не смог открыть файл
	ErrLoad = errors.New("не удалось загрузить трек")
	// ErrEmptyPlaylist плейлист пуст
	ErrEmptyPlaylist = errors.New("плейлист пуст")
)

// State состояние контроллера
type State int

// Состояния контроллера
const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Controller владеет текущим индексом и текущим дескриптором.
// Все методы вызываются из одной горутины интерфейса.
type Controller struct {
	tracks *track.Manager
	engine player.Engine

	current   int
	currentID string
	handle    player.Handle
}

// NewController создает контроллер без выбранного трека
func NewController(tracks *track.Manager, engine player.Engine) *Controller {
	return &Controller{
		tracks:  tracks,
		engine:  engine,
		current: -1,
	}
}

// CurrentIndex возвращает индекс выбранного трека или -1
func (c *Controller) CurrentIndex() int {
	return c.current
}

// Current возвращает выбранный трек
func (c *Controller) Current() (track.Track, bool) {
	return c.tracks.Track(c.current)
}

// Handle возвращает текущий дескриптор или nil
func (c *Controller) Handle() player.Handle {
	return c.handle
}

// State вычисляет состояние по дескриптору
func (c *Controller) State() State {
	switch {
	case c.handle == nil:
		return Idle
	case c.handle.Playing():
		return Playing
	default:
		return Paused
	}
}

// SelectAndPlay останавливает текущий трек, загружает трек по индексу и запускает его
func (c *Controller) SelectAndPlay(index int) error {
	t, ok := c.tracks.Track(index)
	if !ok {
		return fmt.Errorf("%w: %d (треков: %d)", ErrIndex, index, c.tracks.Len())
	}

	c.current = index
	c.currentID = t.ID
	c.release()

	handle, err := c.engine.Load(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, t.DisplayName(), err)
	}
	c.handle = handle
	c.handle.Play()
	return nil
}

// TogglePlayPause ставит на паузу играющий трек или возобновляет остановленный.
// Без дескриптора запускает выбранный трек, а если его нет, первый.
func (c *Controller) TogglePlayPause() error {
	if c.handle == nil {
		if c.tracks.Len() == 0 {
			return ErrEmptyPlaylist
		}
		index := c.current
		if index == -1 {
			index = 0
		}
		return c.SelectAndPlay(index)
	}

	if c.handle.Playing() {
		c.handle.Pause()
	} else {
		c.handle.Play()
	}
	return nil
}

// Next переходит к следующему треку с переходом через конец списка
func (c *Controller) Next() error {
	return c.step(1)
}

// Previous переходит к предыдущему треку с переходом через начало списка
func (c *Controller) Previous() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	n := c.tracks.Len()
	if n == 0 {
		return ErrEmptyPlaylist
	}
	index := ((c.current+delta)%n + n) % n
	return c.SelectAndPlay(index)
}

// Shuffle перемешивает плейлист и находит выбранный трек на новой позиции
func (c *Controller) Shuffle() {
	c.tracks.Shuffle()
	if c.currentID != "" {
		c.current = c.tracks.IndexOf(c.currentID)
		if c.current == -1 {
			c.currentID = ""
		}
	}
}

// Close останавливает и освобождает текущий дескриптор
func (c *Controller) Close() {
	c.release()
}

func (c *Controller) release() {
	if c.handle == nil {
		return
	}
	c.handle.Stop()
	_ = c.handle.Close()
	c.handle = nil
}
