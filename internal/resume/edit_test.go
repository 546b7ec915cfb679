package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile2pdf/internal/types"
)

func TestApply(t *testing.T) {
	base := Synthesizer{}.Synthesize(sampleProfile())

	tests := []struct {
		name  string
		ops   []Operation
		check func(t *testing.T, r *types.ResumeRecord)
	}{
		{
			name: "set personal info",
			ops:  []Operation{{Op: OpSet, Section: SectionPersonalInfo, Field: "contact", Value: "alice@example.com"}},
			check: func(t *testing.T, r *types.ResumeRecord) {
				assert.Equal(t, "alice@example.com", r.PersonalInfo.Contact)
			},
		},
		{
			name: "set summary",
			ops:  []Operation{{Op: OpSet, Section: SectionSummary, Value: "Builds things."}},
			check: func(t *testing.T, r *types.ResumeRecord) {
				assert.Equal(t, "Builds things.", r.Summary)
			},
		},
		{
			name: "add and fill work experience",
			ops: []Operation{
				{Op: OpAdd, Section: SectionWorkExperience},
				{Op: OpSet, Section: SectionWorkExperience, Index: 1, Field: "company", Value: "Acme"},
				{Op: OpRemove, Section: SectionWorkExperience, Index: 0},
			},
			check: func(t *testing.T, r *types.ResumeRecord) {
				require.Len(t, r.WorkExperience, 1)
				assert.Equal(t, types.WorkExperience{Company: "Acme"}, r.WorkExperience[0])
			},
		},
		{
			name: "edit education",
			ops:  []Operation{{Op: OpSet, Section: SectionEducation, Field: "degree", Value: "BSc"}},
			check: func(t *testing.T, r *types.ResumeRecord) {
				assert.Equal(t, "BSc", r.Education[0].Degree)
			},
		},
		{
			name: "skills add set remove",
			ops: []Operation{
				{Op: OpAdd, Section: SectionSkills, Value: "Go"},
				{Op: OpSet, Section: SectionSkills, Index: 0, Value: "React Native"},
				{Op: OpRemove, Section: SectionSkills, Index: 1},
			},
			check: func(t *testing.T, r *types.ResumeRecord) {
				assert.Equal(t, []string{"React Native", "Go"}, r.Skills)
			},
		},
		{
			name: "languages",
			ops: []Operation{
				{Op: OpAdd, Section: SectionLanguages, Value: "English"},
				{Op: OpRemove, Section: SectionLanguages, Index: 0},
			},
			check: func(t *testing.T, r *types.ResumeRecord) {
				assert.Equal(t, []string{"English"}, r.Languages)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(base, tt.ops...)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}

	assert.Equal(t, Synthesizer{}.Synthesize(sampleProfile()), base, "input record is never modified")
}

func TestApply_Errors(t *testing.T) {
	base := Synthesizer{}.Synthesize(sampleProfile())

	tests := []struct {
		name    string
		op      Operation
		wantErr error
	}{
		{"index out of range", Operation{Op: OpSet, Section: SectionSkills, Index: 5, Value: "x"}, ErrIndexOutOfRange},
		{"remove missing entry", Operation{Op: OpRemove, Section: SectionEducation, Index: 1}, ErrIndexOutOfRange},
		{"unknown personal field", Operation{Op: OpSet, Section: SectionPersonalInfo, Field: "email"}, ErrUnknownField},
		{"unknown work field", Operation{Op: OpSet, Section: SectionWorkExperience, Field: "salary"}, ErrUnknownField},
		{"add to summary", Operation{Op: OpAdd, Section: SectionSummary}, ErrUnsupportedOp},
		{"remove personal info", Operation{Op: OpRemove, Section: SectionPersonalInfo}, ErrUnsupportedOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(base, tt.op)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)

			var editErr *EditError
			require.ErrorAs(t, err, &editErr)
			assert.Equal(t, 0, editErr.Index)
		})
	}
}

func TestApply_ValidationFailure(t *testing.T) {
	base := Synthesizer{}.Synthesize(sampleProfile())

	for _, op := range []Operation{
		{Op: "replace", Section: SectionSummary},
		{Op: OpSet, Section: "hobbies"},
		{Op: OpSet, Section: SectionSkills, Index: -1},
		{},
	} {
		_, err := Apply(base, Operation{Op: OpSet, Section: SectionSummary, Value: "ok"}, op)
		var editErr *EditError
		require.ErrorAs(t, err, &editErr)
		assert.Equal(t, 1, editErr.Index)
		assert.Equal(t, "invalid operation", editErr.Message)
	}
}

func TestApply_NoOps(t *testing.T) {
	base := Synthesizer{}.Synthesize(sampleProfile())
	got, err := Apply(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)
	assert.NotSame(t, base, got)
}
