package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMin(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 2, Min(5, 2))
	assert.Equal(t, 1.5, Min(1.5, 2.5))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, 5, Max(5, 2))
	assert.Equal(t, 2.5, Max(1.5, 2.5))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, 1.25, Abs(-1.25))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(12, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
}

func TestDecorateText(t *testing.T) {
	decorated := DecorateText("boom", ErrorMessage)
	assert.True(t, strings.HasPrefix(decorated, ErrorColor))
	assert.True(t, strings.HasSuffix(decorated, DefaultColor))
	assert.Contains(t, decorated, "boom")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 30.00s", FormatTime(150*time.Second))
	assert.Equal(t, "1h 1m 5.00s", FormatTime(time.Hour+time.Minute+5*time.Second))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com/image.png"))
	assert.True(t, IsValidURL("http://localhost:8080/x"))
	assert.False(t, IsValidURL("/local/path.png"))
	assert.False(t, IsValidURL("image.png"))
}
