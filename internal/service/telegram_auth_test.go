package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signInitData builds a valid init_data string using the same algorithm the
// production validator expects.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	var parts []string
	for k, v := range fields {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(parts, "\n")))

	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, v)
	}
	vals.Add("hash", hex.EncodeToString(mac.Sum(nil)))
	return vals.Encode()
}

func TestValidateTelegramInitData_Valid(t *testing.T) {
	botToken := "test-bot-token"
	initData := signInitData(t, botToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	})

	vals, ok := ValidateTelegramInitData(initData, botToken)
	require.True(t, ok)
	assert.NotEmpty(t, vals.Get("user"))
}

func TestValidateTelegramInitData_Tampered(t *testing.T) {
	botToken := "test-bot-token"
	initData := signInitData(t, botToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"username":"u","first_name":"F"}`,
	})

	_, ok := ValidateTelegramInitData(initData+"&x=1", botToken)
	assert.False(t, ok)
}

func TestValidateTelegramInitData_WrongToken(t *testing.T) {
	initData := signInitData(t, "token-a", map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1}`,
	})

	_, ok := ValidateTelegramInitData(initData, "token-b")
	assert.False(t, ok)
}

func TestValidateTelegramInitData_Stale(t *testing.T) {
	botToken := "test-bot-token"
	initData := signInitData(t, botToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10),
		"user":      `{"id":1}`,
	})

	_, ok := ValidateTelegramInitData(initData, botToken)
	assert.False(t, ok)
}

func TestValidateTelegramInitData_MissingHash(t *testing.T) {
	_, ok := ValidateTelegramInitData("auth_date=1&user=x", "token")
	assert.False(t, ok)
}
