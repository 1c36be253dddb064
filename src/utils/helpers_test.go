package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "someone@example.com", NormalizeEmail("  Someone@Example.COM "))
	assert.Equal(t, "a@b.co", NormalizeEmail("a@b.co"))
}

func TestSlotsOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		overlap                    bool
	}{
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"partial tail", "10:00", "11:00", "10:30", "11:30", true},
		{"partial head", "10:30", "11:30", "10:00", "11:00", true},
		{"containment", "09:00", "12:00", "10:00", "11:00", true},
		{"adjacent after", "10:00", "11:00", "11:00", "12:00", false},
		{"adjacent before", "11:00", "12:00", "10:00", "11:00", false},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.overlap, SlotsOverlap(c.aStart, c.aEnd, c.bStart, c.bEnd))
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2026-03-10", "14:30")
	assert.Nil(t, err)
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	assert.True(t, got.Equal(want))

	_, err = CombineDateTime("10/03/2026", "14:30")
	assert.NotNil(t, err)

	_, err = CombineDateTime("2026-03-10", "2pm")
	assert.NotNil(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.Nil(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}
