// Package session содержит доменную модель сессий ThriveRemote.
// Токен сессии - непрозрачная случайная строка без встроенных claims;
// вся информация о сессии живёт на сервере.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// TokenBytes - количество случайных байт в токене сессии.
// 32 байта энтропии, base64 URL-safe кодирование.
const TokenBytes = 32

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrSessionNotFound - сессия не найдена или неактивна.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidToken - пустой или некорректный токен.
	ErrInvalidToken = errors.New("invalid session token")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session представляет активную сессию пользователя.
type Session struct {
	// Token - непрозрачный URL-safe токен (ключ сессии).
	Token string

	// UserID - идентификатор владельца сессии.
	UserID string

	// Username - имя владельца (денормализовано для быстрого доступа).
	Username string

	// CreatedAt - время создания сессии.
	CreatedAt time.Time

	// LastUsedAt - время последнего разрешения токена.
	LastUsedAt time.Time

	// Active - активна ли сессия. Инвалидация сбрасывает флаг,
	// запись остаётся для аудита.
	Active bool
}

// GenerateToken генерирует новый токен сессии: 32 случайных байта
// в base64 URL-safe кодировании без набивки.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewSession создаёт новую активную сессию для пользователя.
func NewSession(userID, username string) (*Session, error) {
	if userID == "" {
		return nil, errors.New("session user id is required")
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Session{
		Token:      token,
		UserID:     userID,
		Username:   username,
		CreatedAt:  now,
		LastUsedAt: now,
		Active:     true,
	}, nil
}

// TouchUsed обновляет время последнего использования.
func (s *Session) TouchUsed() {
	s.LastUsedAt = time.Now().UTC()
}

// Invalidate деактивирует сессию. Повторный вызов - no-op.
func (s *Session) Invalidate() {
	s.Active = false
}

// IsActive проверяет, что сессия активна.
func (s *Session) IsActive() bool {
	return s != nil && s.Active
}

// Clone создаёт копию сессии.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	clone := *s
	return &clone
}
