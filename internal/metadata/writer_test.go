package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
)

func TestWriterTag(t *testing.T) {
	tests := []struct {
		name           string
		sourceTitle    string
		expectedArtist string
		expectedTitle  string
	}{
		{"artist and title", "Daft Punk - One More Time", "Daft Punk", "One More Time"},
		{"title only", "Ambient Mix", "", "Ambient Mix"},
		{"dots in title", "Mr. Oizo - Flat Beat", "Mr. Oizo", "Flat Beat"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "track.mp3")
			if err := os.WriteFile(path, []byte("fake mp3 frames"), 0644); err != nil {
				t.Fatalf("Ошибка создания файла: %v", err)
			}

			if err := NewWriter().Tag(path, test.sourceTitle); err != nil {
				t.Fatalf("Неожиданная ошибка: %v", err)
			}

			tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
			if err != nil {
				t.Fatalf("Ошибка чтения тегов: %v", err)
			}
			defer tag.Close()

			if tag.Artist() != test.expectedArtist {
				t.Errorf("Ожидался исполнитель %q, получен %q", test.expectedArtist, tag.Artist())
			}
			if tag.Title() != test.expectedTitle {
				t.Errorf("Ожидалось название %q, получено %q", test.expectedTitle, tag.Title())
			}
		})
	}
}

func TestWriterTagMissingFile(t *testing.T) {
	if err := NewWriter().Tag("/nonexistent/track.mp3", "A - B"); err == nil {
		t.Error("Ожидалась ошибка для несуществующего файла")
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected Tags
	}{
		{"Artist - Title", Tags{Artist: "Artist", Title: "Title"}},
		{"  Artist  -  Title  ", Tags{Artist: "Artist", Title: "Title"}},
		{"A - B - C", Tags{Artist: "A", Title: "B - C"}},
		{"Just Title", Tags{Artist: UnknownArtist, Title: "Just Title"}},
	}

	for _, test := range tests {
		if got := SplitTitle(test.input); got != test.expected {
			t.Errorf("SplitTitle(%q) = %+v, expected %+v", test.input, got, test.expected)
		}
	}
}
