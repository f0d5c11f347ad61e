package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength   = 20
	maxAvatarLength = 8
)

func validateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", fmt.Errorf("name must be %d characters or fewer", maxNameLength)
	}
	return trimmed, nil
}

// validateAvatar accepts an empty avatar; the store assigns one.
func validateAvatar(avatar string) (string, error) {
	trimmed := strings.TrimSpace(avatar)
	if utf8.RuneCountInString(trimmed) > maxAvatarLength {
		return "", fmt.Errorf("avatar must be %d characters or fewer", maxAvatarLength)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
