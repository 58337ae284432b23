package session

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hazadus/go-jukebox/internal/downloader"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/source"
	"github.com/hazadus/go-jukebox/internal/track"
)

type fakeHandle struct {
	playing bool
}

func (h *fakeHandle) Play()          { h.playing = true }
func (h *fakeHandle) Pause()         { h.playing = false }
func (h *fakeHandle) Stop()          { h.playing = false }
func (h *fakeHandle) Playing() bool  { return h.playing }
func (h *fakeHandle) Finished() bool { return false }
func (h *fakeHandle) Close() error   { return nil }
func (h *fakeHandle) Position() (time.Duration, time.Duration) {
	return 0, 0
}

type fakeEngine struct {
	fail map[string]bool
}

func (e *fakeEngine) Load(path string) (player.Handle, error) {
	if e.fail[path] {
		return nil, errors.New("ошибка декодирования MP3")
	}
	return &fakeHandle{}, nil
}

// fakeSubmitter запоминает URL, не запуская загрузок
type fakeSubmitter struct {
	urls []string
}

func (f *fakeSubmitter) Submit(url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", downloader.ErrValidation
	}
	f.urls = append(f.urls, url)
	return "task", nil
}

func newTestSession(paths ...string) (*Session, *fakeEngine, *fakeSubmitter) {
	tracks := track.NewManagerWithRand(rand.New(rand.NewPCG(1, 2)))
	for _, p := range paths {
		tracks.Append(track.New(p))
	}
	engine := &fakeEngine{fail: map[string]bool{}}
	submitter := &fakeSubmitter{}
	return New(tracks, playback.NewController(tracks, engine), submitter), engine, submitter
}

func TestInitialStatus(t *testing.T) {
	s, _, _ := newTestSession()
	if s.Status() != StatusReady {
		t.Errorf("Ожидался статус %q, получено %q", StatusReady, s.Status())
	}
}

func TestSubmitEmptyURL(t *testing.T) {
	s, _, submitter := newTestSession()

	if got := s.Submit("  "); got != StatusEnterURL {
		t.Errorf("Ожидался статус %q, получено %q", StatusEnterURL, got)
	}
	if len(submitter.urls) != 0 || s.Pending() != 0 {
		t.Error("Пустой URL не должен отправляться на загрузку")
	}
}

func TestSubmitAndHandleEvents(t *testing.T) {
	s, _, submitter := newTestSession()

	if got := s.Submit("https://youtu.be/dQw4w9WgXcQ"); got != StatusDownloading {
		t.Errorf("Ожидался статус %q, получено %q", StatusDownloading, got)
	}
	// Повторная отправка того же URL это новая загрузка
	s.Submit("https://youtu.be/dQw4w9WgXcQ")
	if len(submitter.urls) != 2 || s.Pending() != 2 {
		t.Fatalf("Ожидались 2 загрузки, получено %d (в ожидании %d)", len(submitter.urls), s.Pending())
	}

	got := s.HandleEvent(downloader.Event{Path: "downloads/Song.mp3"})
	if got != StatusSongAdded {
		t.Errorf("Ожидался статус %q, получено %q", StatusSongAdded, got)
	}
	if s.Tracks().Len() != 1 {
		t.Errorf("Ожидался 1 трек, получено %d", s.Tracks().Len())
	}

	got = s.HandleEvent(downloader.Event{Err: errors.New("видео недоступно")})
	if got != "Error: видео недоступно" {
		t.Errorf("Неожиданный статус: %q", got)
	}
	if s.Tracks().Len() != 1 {
		t.Error("Ошибка загрузки не должна добавлять трек")
	}
	if s.Pending() != 0 {
		t.Errorf("Все загрузки завершены, в ожидании %d", s.Pending())
	}
}

func TestTogglePlayPauseEmptyPlaylist(t *testing.T) {
	s, _, _ := newTestSession()

	if got := s.TogglePlayPause(); got != StatusEmpty {
		t.Errorf("Ожидался статус %q, получено %q", StatusEmpty, got)
	}
	if s.Player().CurrentIndex() != -1 || s.Player().Handle() != nil {
		t.Error("Состояние воспроизведения не должно меняться")
	}
}

func TestTogglePlayPause(t *testing.T) {
	s, _, _ := newTestSession("music/a.mp3", "music/b.mp3")

	if got := s.TogglePlayPause(); got != "Playing: a.mp3" {
		t.Errorf("Неожиданный статус: %q", got)
	}
	if got := s.TogglePlayPause(); got != StatusPaused {
		t.Errorf("Ожидался статус %q, получено %q", StatusPaused, got)
	}
	if got := s.TogglePlayPause(); got != StatusPlaying {
		t.Errorf("Ожидался статус %q, получено %q", StatusPlaying, got)
	}
}

func TestNextWrapsAround(t *testing.T) {
	s, _, _ := newTestSession("A.mp3", "B.mp3", "C.mp3")
	s.PlayIndex(0)

	s.Next()
	if got := s.Next(); got != "Playing: C.mp3" {
		t.Errorf("Неожиданный статус: %q", got)
	}
	if s.Player().CurrentIndex() != 2 {
		t.Errorf("Ожидался индекс 2, получено %d", s.Player().CurrentIndex())
	}
	s.Next()
	if s.Player().CurrentIndex() != 0 {
		t.Errorf("Ожидался переход к индексу 0, получено %d", s.Player().CurrentIndex())
	}
	s.Previous()
	if s.Player().CurrentIndex() != 2 {
		t.Errorf("Ожидался переход к индексу 2, получено %d", s.Player().CurrentIndex())
	}
}

func TestNextOnEmptyPlaylistKeepsStatus(t *testing.T) {
	s, _, _ := newTestSession()
	s.Shuffle()

	if got := s.Next(); got != StatusShuffled {
		t.Errorf("Статус не должен меняться, получено %q", got)
	}
	if got := s.Previous(); got != StatusShuffled {
		t.Errorf("Статус не должен меняться, получено %q", got)
	}
}

func TestPlayIndexErrors(t *testing.T) {
	s, engine, _ := newTestSession("ok.mp3", "broken.mp3")
	engine.fail["broken.mp3"] = true

	if got := s.PlayIndex(1); got != StatusCannotPlay {
		t.Errorf("Ожидался статус %q, получено %q", StatusCannotPlay, got)
	}
	if got := s.PlayIndex(5); !strings.HasPrefix(got, "Error: ") {
		t.Errorf("Ожидалось сообщение об ошибке, получено %q", got)
	}

	empty, _, _ := newTestSession()
	if got := empty.PlayIndex(0); got != StatusEmpty {
		t.Errorf("Ожидался статус %q, получено %q", StatusEmpty, got)
	}
}

func TestVisibleUsesPlaylistIndex(t *testing.T) {
	s, _, _ := newTestSession("Rock Song.mp3", "Jazz Tune.mp3", "rock anthem.mp3")

	s.SetFilter("ROCK")
	visible := s.Visible()
	if len(visible) != 2 {
		t.Fatalf("Ожидалось 2 трека, получено %d", len(visible))
	}
	if visible[1].Index != 2 {
		t.Errorf("Ожидался индекс 2 в плейлисте, получено %d", visible[1].Index)
	}

	// Выбор из отфильтрованного списка запускает нужный трек
	if got := s.PlayIndex(visible[1].Index); got != "Playing: rock anthem.mp3" {
		t.Errorf("Неожиданный статус: %q", got)
	}

	s.SetFilter("")
	if len(s.Visible()) != 3 {
		t.Error("Пустой фильтр должен показывать все треки")
	}
}

func TestShuffleKeepsCurrentTrack(t *testing.T) {
	s, _, _ := newTestSession("a.mp3", "b.mp3", "c.mp3", "d.mp3")
	s.PlayIndex(1)

	if got := s.Shuffle(); got != StatusShuffled {
		t.Errorf("Ожидался статус %q, получено %q", StatusShuffled, got)
	}
	current, ok := s.Player().Current()
	if !ok || current.DisplayName() != "b.mp3" {
		t.Errorf("После перемешивания выбранным должен остаться b.mp3, получено %+v", current)
	}
}

// stubStream и stubResolver имитируют источник для настоящего сервиса загрузок
type stubStream struct{}

func (stubStream) Title() string { return "Valid Song" }
func (stubStream) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("audio")), nil
}

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, string) (source.Stream, error) {
	return stubStream{}, nil
}

type copyTranscoder struct{}

func (copyTranscoder) Transcode(_ context.Context, in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0644)
}

func TestSubmitEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	service := downloader.NewService(ctx, stubResolver{}, copyTranscoder{}, downloader.Options{Dir: dir, Workers: 1})
	tracks := track.NewManager()
	s := New(tracks, playback.NewController(tracks, &fakeEngine{}), service)

	start := time.Now()
	s.Submit("https://valid-audio-source/x")
	if time.Since(start) > time.Second {
		t.Error("Submit не должен ждать загрузку")
	}

	select {
	case event := <-service.Events():
		s.HandleEvent(event)
	case <-time.After(5 * time.Second):
		t.Fatal("Не дождались события загрузки")
	}

	if tracks.Len() != 1 {
		t.Fatalf("Ожидался ровно 1 трек, получено %d", tracks.Len())
	}
	added, _ := tracks.Track(0)
	if _, err := os.Stat(added.Path); err != nil {
		t.Errorf("Файл трека должен существовать в директории загрузок: %v", err)
	}
	if !strings.HasPrefix(added.Path, dir) {
		t.Errorf("Трек должен лежать в %s, получено %s", dir, added.Path)
	}
}
