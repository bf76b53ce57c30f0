package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPKey(t *testing.T) {
	start := WindowStart(time.Date(2026, 1, 1, 10, 7, 30, 0, time.UTC), 15*time.Minute)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, "rl:ip:203.0.113.7:1767261600", IPKey("203.0.113.7", start))
}

func TestSanitizeKeySegment(t *testing.T) {
	assert.Equal(t, "rl:ip:2001_db8__1:0", IPKey("2001:db8::1", time.Unix(0, 0)))
	assert.Equal(t, "user_admin", SanitizeKeySegment("user:admin"))
}
