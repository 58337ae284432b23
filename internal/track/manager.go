package track

import (
	"iter"
	"math/rand/v2"
	"strings"
)

// Manager хранит упорядоченный плейлист треков.
// Не потокобезопасен: все изменения выполняются из одной горутины интерфейса.
type Manager struct {
	tracks []Track
	rng    *rand.Rand
}

// NewManager создает пустой плейлист
func NewManager() *Manager {
	return &Manager{}
}

// NewManagerWithRand создает пустой плейлист с заданным генератором для перемешивания
func NewManagerWithRand(rng *rand.Rand) *Manager {
	return &Manager{rng: rng}
}

// Append добавляет трек в конец плейлиста
func (m *Manager) Append(t Track) {
	m.tracks = append(m.tracks, t)
}

// Len возвращает количество треков
func (m *Manager) Len() int {
	return len(m.tracks)
}

// Track возвращает трек по индексу
func (m *Manager) Track(i int) (Track, bool) {
	if i < 0 || i >= len(m.tracks) {
		return Track{}, false
	}
	return m.tracks[i], true
}

// ListTracks возвращает копию списка всех треков
func (m *Manager) ListTracks() []Track {
	out := make([]Track, len(m.tracks))
	copy(out, m.tracks)
	return out
}

// IndexOf возвращает позицию трека с указанным ID или -1
func (m *Manager) IndexOf(id string) int {
	for i, t := range m.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Filter возвращает ленивую последовательность пар (индекс, трек), у которых
// имя содержит query без учета регистра. Пустой запрос отдает все треки.
// Последовательность пересчитывается при каждом обходе.
func (m *Manager) Filter(query string) iter.Seq2[int, Track] {
	q := strings.ToLower(query)
	return func(yield func(int, Track) bool) {
		for i, t := range m.tracks {
			if q != "" && !strings.Contains(strings.ToLower(t.DisplayName()), q) {
				continue
			}
			if !yield(i, t) {
				return
			}
		}
	}
}

// Shuffle заменяет порядок треков случайной перестановкой (Fisher-Yates).
// Ранее полученные индексы после этого недействительны.
func (m *Manager) Shuffle() {
	for i := len(m.tracks) - 1; i > 0; i-- {
		j := m.intN(i + 1)
		m.tracks[i], m.tracks[j] = m.tracks[j], m.tracks[i]
	}
}

func (m *Manager) intN(n int) int {
	if m.rng != nil {
		return m.rng.IntN(n)
	}
	return rand.IntN(n)
}
