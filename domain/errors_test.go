package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMismatchError(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
	}{
		{2, "código incorrecto, te quedan 2 intentos"},
		{1, "código incorrecto, te queda 1 intento"},
		{0, "código incorrecto, te quedan 0 intentos"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := &MismatchError{Remaining: tt.remaining}
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, errors.Is(err, ErrCodeMismatch))
		})
	}

	var mismatch *MismatchError
	err := error(&MismatchError{Remaining: 1})
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, mismatch.Remaining)
}
