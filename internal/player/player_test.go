package player

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadNonExistentFile(t *testing.T) {
	engine := NewSpeaker()

	handle, err := engine.Load(filepath.Join(t.TempDir(), "missing.mp3"))

	if err == nil {
		t.Fatal("Ожидалась ошибка при загрузке несуществующего файла")
	}
	if handle != nil {
		t.Error("При ошибке дескриптор должен быть nil")
	}
	if !strings.Contains(err.Error(), "ошибка открытия файла") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE}, 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}

	engine := NewSpeaker()
	_, err := engine.Load(path)

	if err == nil {
		t.Fatal("Ожидалась ошибка при декодировании некорректного файла")
	}
	if !strings.Contains(err.Error(), "ошибка декодирования MP3") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
	// Динамики не должны инициализироваться, если файл не декодирован
	if engine.initialized {
		t.Error("Динамики не должны быть инициализированы после ошибки декодирования")
	}
}

func TestSpeakerImplementsEngine(t *testing.T) {
	var _ Engine = NewSpeaker()
	var _ Handle = (*beepHandle)(nil)
}
