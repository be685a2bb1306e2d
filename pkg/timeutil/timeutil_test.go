package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJST(t *testing.T) {
	name, offset := time.Date(2026, 1, 15, 12, 0, 0, 0, JST).Zone()

	assert.Equal(t, "Asia/Tokyo", name)
	assert.Equal(t, 9*60*60, offset)

	// Fixed zone: no DST shift across the year.
	_, summer := time.Date(2026, 7, 15, 12, 0, 0, 0, JST).Zone()
	assert.Equal(t, offset, summer)
}
