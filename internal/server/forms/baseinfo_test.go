package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseInfo_Validate(t *testing.T) {
	tests := []struct {
		name string
		form BaseInfo
		want []FieldError
	}{
		{
			name: "valid",
			form: BaseInfo{Name: "My Blog", Domains: []string{"example.com"}},
		},
		{
			name: "name too short",
			form: BaseInfo{Name: "A", Domains: []string{"example.com"}},
			want: []FieldError{{Field: "name", Rule: "min", Param: "2"}},
		},
		{
			name: "name too long",
			form: BaseInfo{Name: strings.Repeat("x", 51), Domains: []string{"example.com"}},
			want: []FieldError{{Field: "name", Rule: "max", Param: "50"}},
		},
		{
			name: "name of exactly fifty characters",
			form: BaseInfo{Name: strings.Repeat("x", 50), Domains: []string{"abcd"}},
		},
		{
			name: "no domains",
			form: BaseInfo{Name: "Blog", Domains: []string{}},
			want: []FieldError{{Field: "domains", Rule: "min", Param: "1"}},
		},
		{
			name: "nil domains",
			form: BaseInfo{Name: "Blog"},
			want: []FieldError{{Field: "domains", Rule: "min", Param: "1"}},
		},
		{
			name: "domain too short",
			form: BaseInfo{Name: "Blog", Domains: []string{"example.com", "ab"}},
			want: []FieldError{{Field: "domains[1]", Rule: "min", Param: "4"}},
		},
		{
			name: "whitespace trimmed before checks",
			form: BaseInfo{Name: "  B  ", Domains: []string{"  abc  "}},
			want: []FieldError{
				{Field: "name", Rule: "min", Param: "2"},
				{Field: "domains[0]", Rule: "min", Param: "4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			if diff := cmp.Diff(tt.want, verr.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBaseInfo_ValidateTrimsInPlace(t *testing.T) {
	form := BaseInfo{Name: "  My Blog ", Domains: []string{" example.com\t"}}

	require.NoError(t, form.Validate())
	assert.Equal(t, "My Blog", form.Name)
	assert.Equal(t, []string{"example.com"}, form.Domains)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Rule: "min", Param: "2"},
		{Field: "domains", Rule: "required"},
	}}

	assert.Equal(t, "validation error: name: min=2; domains: required", err.Error())
}
