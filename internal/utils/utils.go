package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/poolotto/poolotto-backend/internal/config"
)

// GenerateJWT generates a signed token for an operator session
func GenerateJWT(subject, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseAmount parses a smallest-unit amount sent as a decimal string. Amounts
// travel as strings because values above 2^53 lose precision as JSON numbers.
func ParseAmount(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: expected an integer in smallest units", s)
	}
	return v, nil
}

// FormatAmount renders a smallest-unit amount as a string for responses.
func FormatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

// FormatTokens renders a smallest-unit amount as a decimal token value
// (1e18 smallest units = 1 token), for logs and events.
func FormatTokens(amount int64) string {
	const unit = int64(1_000_000_000_000_000_000)
	whole := amount / unit
	frac := amount % unit
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%018d", whole, frac), "0")
}
