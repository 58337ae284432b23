// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var unsafeFileNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// maxFileNameLen ограничивает длину имени файла в байтах
const maxFileNameLen = 200

// FormatDuration форматирует time.Duration в формат MM:SS, а для длинных треков в HH:MM:SS
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// TruncateString обрезает строку до указанной длины в рунах, добавляя "..." если строка длиннее
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// SanitizeFileName очищает имя файла от недопустимых символов
func SanitizeFileName(name string) string {
	name = unsafeFileNameChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	// Обрезаем по границе руны, чтобы не получить битый UTF-8
	if len(name) > maxFileNameLen {
		cut := 0
		for i := range name {
			if i > maxFileNameLen {
				break
			}
			cut = i
		}
		name = strings.TrimSpace(name[:cut])
	}

	if name == "" || name == "." || name == ".." {
		return "track"
	}
	return name
}

// ExpandHome заменяет ведущую тильду на домашнюю директорию пользователя
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
