package e

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// RateLimitPrefix — машиночитаемый префикс в тексте ошибки лимита запросов: "RATE_LIMIT:<секунды>".
const RateLimitPrefix = "RATE_LIMIT:"

var rateLimitRe = regexp.MustCompile(`RATE_LIMIT:(\d+)`)

// RateLimitError сигнализирует, что провайдер каталога ограничил частоту запросов.
// RetryAfter — сколько вызывающая сторона должна ждать до следующей попытки.
type RateLimitError struct {
	RetryAfter time.Duration
}

func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{RetryAfter: retryAfter}
}

func (r *RateLimitError) Error() string {
	return fmt.Sprintf("%s: %s%d", ErrRateLimited.Error(), RateLimitPrefix, int64(r.RetryAfter/time.Second))
}

func (r *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ParseRateLimit достаёт длительность ожидания из цепочки ошибок.
func ParseRateLimit(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}

	if err != nil {
		return ParseRateLimitMessage(err.Error())
	}

	return 0, false
}

// ParseRateLimitMessage разбирает текст ошибки (например, пришедший с клиента) по префиксу RATE_LIMIT.
func ParseRateLimitMessage(msg string) (time.Duration, bool) {
	m := rateLimitRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}

	secs, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(secs) * time.Second, true
}

// CooldownError — повторный импорт запрещён до истечения Remaining.
type CooldownError struct {
	Remaining time.Duration
}

func NewCooldownError(remaining time.Duration) *CooldownError {
	return &CooldownError{Remaining: remaining}
}

func (c *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry after %ds", ErrImportCooldown.Error(), int64(c.Remaining.Round(time.Second)/time.Second))
}

func (c *CooldownError) Unwrap() error {
	return ErrImportCooldown
}
