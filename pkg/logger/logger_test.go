package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	log := New("test-service")
	assert.NotNil(t, log)
	log.Infow("hello", "key", "value")
}

func TestNopDiscardsOutput(t *testing.T) {
	log := Nop()
	assert.NotNil(t, log)
	log.Errorw("this should be discarded")
}
