// Package player содержит компоненты для воспроизведения локальных аудиофайлов
package player

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// resampleQuality качество передискретизации для файлов с иной частотой
const resampleQuality = 4

// Engine загружает аудиофайлы в готовые к воспроизведению дескрипторы
type Engine interface {
	Load(path string) (Handle, error)
}

// Handle декодированный экземпляр одного трека
type Handle interface {
	// Play запускает или возобновляет воспроизведение. Завершившийся трек начинается сначала.
	Play()
	// Pause приостанавливает воспроизведение с сохранением позиции
	Pause()
	// Stop останавливает воспроизведение без возможности продолжить
	Stop()
	Playing() bool
	Finished() bool
	// Position возвращает текущую позицию и общую длительность
	Position() (current, total time.Duration)
	Close() error
}

// Speaker реализует Engine поверх динамиков beep.
// Динамики инициализируются один раз с частотой первого загруженного файла.
type Speaker struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

// NewSpeaker создает движок воспроизведения
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// Load открывает и декодирует MP3 файл
func (s *Speaker) Load(path string) (Handle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}

	// Закрытие streamer закрывает и файл
	streamer, format, err := mp3.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	sampleRate, err := s.init(format)
	if err != nil {
		streamer.Close()
		return nil, err
	}

	var source beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		source = beep.Resample(resampleQuality, format.SampleRate, sampleRate, streamer)
	}

	return &beepHandle{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: source, Paused: true},
		source:   source,
		paused:   true,
	}, nil
}

func (s *Speaker) init(format beep.Format) (beep.SampleRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return 0, fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		s.initialized = true
		s.sampleRate = format.SampleRate
	}
	return s.sampleRate, nil
}

// beepHandle управляет одним треком в микшере beep.
// finished выставляется из горутины динамиков под их блокировкой, поэтому
// это атомик, а не поле под mu.
type beepHandle struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	source   beep.Streamer

	queued  bool
	paused  bool
	stopped bool
	closed  bool

	finished atomic.Bool
}

func (h *beepHandle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	if h.queued && !h.stopped && !h.finished.Load() {
		speaker.Lock()
		h.ctrl.Paused = false
		speaker.Unlock()
		h.paused = false
		return
	}

	// Первый запуск либо повтор после окончания или остановки
	speaker.Lock()
	if h.queued {
		_ = h.streamer.Seek(0)
	}
	h.ctrl.Streamer = h.source
	h.ctrl.Paused = false
	speaker.Unlock()

	h.finished.Store(false)
	h.queued = true
	h.paused = false
	h.stopped = false

	speaker.Play(beep.Seq(h.ctrl, beep.Callback(func() {
		h.finished.Store(true)
	})))
}

func (h *beepHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.queued || h.closed {
		return
	}
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
	h.paused = true
}

func (h *beepHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopInternal()
}

// stopInternal должен вызываться под мьютексом
func (h *beepHandle) stopInternal() {
	if !h.queued || h.stopped {
		return
	}
	// Ctrl без источника сообщает микшеру об окончании потока
	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()
	h.stopped = true
}

func (h *beepHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queued && !h.paused && !h.stopped && !h.closed && !h.finished.Load()
}

func (h *beepHandle) Finished() bool {
	return h.finished.Load()
}

func (h *beepHandle) Position() (time.Duration, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, 0
	}
	speaker.Lock()
	current := h.format.SampleRate.D(h.streamer.Position())
	total := h.format.SampleRate.D(h.streamer.Len())
	speaker.Unlock()
	return current, total
}

func (h *beepHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.stopInternal()
	h.closed = true

	// Закрываем под блокировкой динамиков, чтобы микшер не читал закрытый поток
	speaker.Lock()
	err := h.streamer.Close()
	speaker.Unlock()
	return err
}
