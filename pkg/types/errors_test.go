package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     *TermError
		wantMsg string
		wantIs  error
	}{
		{
			name:    "duplicate term",
			err:     &TermError{Op: "add", Term: "Moti", Err: ErrTermExists},
			wantMsg: `term "Moti" already exists`,
			wantIs:  ErrTermExists,
		},
		{
			name:    "missing term",
			err:     &TermError{Op: "remove", Term: "Eli", Err: ErrTermNotFound},
			wantMsg: `term "Eli" does not exist`,
			wantIs:  ErrTermNotFound,
		},
		{
			name:    "other cause keeps the operation",
			err:     &TermError{Op: "update", Term: "x", Err: ErrDetached},
			wantMsg: `update "x": dictionary is detached`,
			wantIs:  ErrDetached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.wantIs)
		})
	}
}

func TestFormatErrorMatchesBothCauses(t *testing.T) {
	err := error(&FormatError{Line: 3, Reason: `duplicate term "a"`, Err: ErrTermExists})

	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorIs(t, err, ErrTermExists)
	assert.Equal(t, `invalid file format: line 3: duplicate term "a"`, err.Error())

	plain := &FormatError{Line: 1, Reason: "missing comma"}
	assert.ErrorIs(t, plain, ErrInvalidFormat)
	assert.NotErrorIs(t, plain, ErrTermExists)

	var fe *FormatError
	wrapped := fmt.Errorf("import: %w", plain)
	assert.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, 1, fe.Line)
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(&TermError{Term: "a", Err: ErrTermExists}))
	assert.True(t, IsUserError(fmt.Errorf("add: %w", ErrInvalidTerm)))
	assert.True(t, IsUserError(&FormatError{Line: 1, Reason: "x"}))
	assert.False(t, IsUserError(fmt.Errorf("%w: disk full", ErrIO)))
	assert.False(t, IsUserError(errors.New("boom")))
}
