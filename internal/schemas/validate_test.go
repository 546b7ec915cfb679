package schemas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile2pdf/internal/mock"
	"github.com/jonathan/profile2pdf/internal/resume"
	"github.com/jonathan/profile2pdf/internal/types"
	"github.com/jonathan/profile2pdf/schemas"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "valid_json.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "invalid_json.json"))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "type_mismatch.json"))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformed)
	assert.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {"name": {"type": "string"}}
			}
		}
	}`

	assert.NoError(t, ValidateJSONString(schemaContent, `{"person": {"name": "Alice"}}`))

	err := ValidateJSONString(schemaContent, `{"person": {}}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors[0].Field, "person")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. age: must be a number")
}

func TestValidateResume_Synthesized(t *testing.T) {
	profile := &types.ProfileRecord{Username: "alice", DisplayName: "Alice", Skills: []string{"Go"}}
	record := resume.Synthesizer{}.Synthesize(profile)
	assert.NoError(t, ValidateResume(record))
}

func TestValidateResume_NilList(t *testing.T) {
	record := resume.Synthesizer{}.Synthesize(&types.ProfileRecord{DisplayName: "Alice"})
	record.Languages = nil

	err := ValidateResume(record)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "languages", validationErr.Errors[0].Field)
}

func TestValidateJSONBytes_Resume(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "complete",
			doc: `{"personalInfo": {"name": "A", "location": "", "website": "", "contact": ""},
				"summary": "", "workExperience": [], "skills": [], "education": [], "languages": []}`,
		},
		{name: "missing sections", doc: `{"summary": "hi"}`, wantErr: true},
		{
			name: "unknown field",
			doc: `{"personalInfo": {"name": "A", "location": "", "website": "", "contact": ""},
				"summary": "", "workExperience": [], "skills": [], "education": [], "languages": [], "hobbies": []}`,
			wantErr: true,
		},
		{name: "not json", doc: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONBytes(schemas.Resume, []byte(tt.doc))
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSONBytes_UnknownSchema(t *testing.T) {
	err := ValidateJSONBytes("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateFetchResult_Generated(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for seed := uint64(0); seed < 20; seed++ {
		gen := mock.New(mock.WithSeed(seed), mock.WithClock(func() time.Time { return now }))
		profile, err := gen.Profile("https://x.com/alice")
		require.NoError(t, err)

		result := &types.AggregatedFetchResult{
			Profile:    *profile,
			References: []types.ReferenceRecord{*gen.Reference("https://github.com/alice")},
			Synthetic:  true,
		}
		assert.NoError(t, ValidateFetchResult(result), "seed %d", seed)
	}
}

func TestValidateFetchResult_Bounds(t *testing.T) {
	gen := mock.New(mock.WithSeed(7))
	profile, err := gen.Profile("https://x.com/alice")
	require.NoError(t, err)

	profile.RecentPosts = append(profile.RecentPosts, types.RecentPost{Text: strings.Repeat("a", 201), Date: types.DateUnknown})
	result := &types.AggregatedFetchResult{Profile: *profile, References: []types.ReferenceRecord{}}

	err = ValidateFetchResult(result)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
