package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Language string `json:"language" validate:"required"`
	Limit    *int   `json:"limit"    validate:"omitempty,gte=0,lte=100"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		anyErr  bool
	}{
		{name: "valid json", body: `{"language": "de", "limit": 5}`},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "trailing comma", body: `{"language": "de",}`, anyErr: true},
		{name: "unknown field", body: `{"language": "de", "extra": 1}`, anyErr: true},
		{name: "trailing data", body: `{"language": "de"} {}`, anyErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.body))
			var target sampleRequest
			err := DecodeJSON(req, &target)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "de", target.Language)
				require.NotNil(t, target.Limit)
				assert.Equal(t, 5, *target.Limit)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	limit := 101
	err := ValidateRequest(&sampleRequest{Language: "de", Limit: &limit})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Limit", verrs[0].Field())

	assert.Error(t, ValidateRequest(&sampleRequest{}))
	assert.NoError(t, ValidateRequest(&sampleRequest{Language: "fr"}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
