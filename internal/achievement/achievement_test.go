package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(0, 10))
	assert.Equal(t, 50.0, Progress(5, 10))
	assert.Equal(t, 100.0, Progress(10, 10))
	assert.Equal(t, 100.0, Progress(25, 10), "progress caps at 100")
	assert.Equal(t, 100.0, Progress(3, 0), "zero target counts as met")
}
