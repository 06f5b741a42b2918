package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewDerivationError("mean(total) by season", "no records selected"),
			want: "[DERIVATION] cannot compute mean(total) by season: no records selected",
		},
		{
			name: "with cause",
			err:  NewDataUnavailableError("data/hour.csv", stderrors.New("open: no such file")),
			want: "[DATA_UNAVAILABLE] dataset unavailable: open: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("saving view: %w", NewStorageError("export failed", cause))

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantType        ErrorType
		wantTyped       bool
		wantUnavailable bool
		wantDerivation  bool
		wantAggregate   string
	}{
		{
			name:            "data unavailable",
			err:             NewDataUnavailableError("hour.csv", nil),
			wantType:        ErrTypeDataUnavailable,
			wantTyped:       true,
			wantUnavailable: true,
		},
		{
			name:           "derivation",
			err:            NewDerivationError("rfm by weekday", "no records selected"),
			wantType:       ErrTypeDerivation,
			wantTyped:      true,
			wantDerivation: true,
			wantAggregate:  "rfm by weekday",
		},
		{
			name:           "wrapped derivation",
			err:            fmt.Errorf("handler: %w", WrapDerivationError("describe", stderrors.New("NaN"))),
			wantType:       ErrTypeDerivation,
			wantTyped:      true,
			wantDerivation: true,
			wantAggregate:  "describe",
		},
		{
			name:      "parsing",
			err:       NewParsingError("line 2", stderrors.New("bad season")),
			wantType:  ErrTypeParsing,
			wantTyped: true,
		},
		{
			name: "plain error",
			err:  stderrors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := TypeOf(tt.err)
			assert.Equal(t, tt.wantTyped, ok)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantUnavailable, IsDataUnavailable(tt.err))
			assert.Equal(t, tt.wantDerivation, IsDerivation(tt.err))
			assert.Equal(t, tt.wantAggregate, AggregateOf(tt.err))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("export failed", nil).WithContext("format", "xlsx")

	assert.Equal(t, "xlsx", err.Context["format"])

	var bare AppError
	bare.WithContext("k", 1)
	assert.Equal(t, 1, bare.Context["k"])
}
