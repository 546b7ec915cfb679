package resume

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/profile2pdf/internal/types"
)

// Edit operation kinds.
const (
	OpSet    = "set"
	OpAdd    = "add"
	OpRemove = "remove"
)

// Résumé sections addressable by an Operation.
const (
	SectionPersonalInfo   = "personalInfo"
	SectionSummary        = "summary"
	SectionWorkExperience = "workExperience"
	SectionSkills         = "skills"
	SectionEducation      = "education"
	SectionLanguages      = "languages"
)

// Operation is one user edit. Index addresses an entry of a list section,
// Field a property of a personalInfo, workExperience or education entry
// (JSON field names). Add appends Value to skills and languages, and an
// empty entry to workExperience and education.
type Operation struct {
	Op      string `json:"op" validate:"required,oneof=set add remove"`
	Section string `json:"section" validate:"required,oneof=personalInfo summary workExperience skills education languages"`
	Index   int    `json:"index,omitempty" validate:"min=0"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

var (
	// ErrIndexOutOfRange is returned when an operation addresses a missing list entry
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownField is returned for a field name the section does not have
	ErrUnknownField = errors.New("unknown field")
	// ErrUnsupportedOp is returned when the section does not support the operation
	ErrUnsupportedOp = errors.New("operation not supported for section")
)

var validate = validator.New()

// Apply returns a copy of record with ops applied in order. The input record
// is never modified; on error no partial result is returned.
func Apply(record *types.ResumeRecord, ops ...Operation) (*types.ResumeRecord, error) {
	out := record.Clone()
	if out == nil {
		out = &types.ResumeRecord{}
	}
	for i, op := range ops {
		if err := validate.Struct(op); err != nil {
			return nil, &EditError{Index: i, Message: "invalid operation", Cause: err}
		}
		if err := apply(out, op); err != nil {
			return nil, &EditError{Index: i, Message: fmt.Sprintf("%s %s", op.Op, op.Section), Cause: err}
		}
	}
	return out, nil
}

func apply(r *types.ResumeRecord, op Operation) error {
	switch op.Section {
	case SectionPersonalInfo:
		if op.Op != OpSet {
			return ErrUnsupportedOp
		}
		field, err := personalInfoField(&r.PersonalInfo, op.Field)
		if err != nil {
			return err
		}
		*field = op.Value
		return nil

	case SectionSummary:
		if op.Op != OpSet {
			return ErrUnsupportedOp
		}
		r.Summary = op.Value
		return nil

	case SectionWorkExperience:
		return editList(&r.WorkExperience, op, types.WorkExperience{}, workExperienceField)

	case SectionEducation:
		return editList(&r.Education, op, types.Education{}, educationField)

	case SectionSkills:
		return editStrings(&r.Skills, op)

	case SectionLanguages:
		return editStrings(&r.Languages, op)
	}
	return ErrUnsupportedOp
}

// editList applies op to a list of structured entries.
func editList[T any](list *[]T, op Operation, empty T, field func(*T, string) (*string, error)) error {
	switch op.Op {
	case OpAdd:
		*list = append(*list, empty)
		return nil
	case OpRemove:
		if err := checkIndex(op.Index, len(*list)); err != nil {
			return err
		}
		*list = slices.Delete(*list, op.Index, op.Index+1)
		return nil
	default:
		if err := checkIndex(op.Index, len(*list)); err != nil {
			return err
		}
		target, err := field(&(*list)[op.Index], op.Field)
		if err != nil {
			return err
		}
		*target = op.Value
		return nil
	}
}

// editStrings applies op to a plain string list.
func editStrings(list *[]string, op Operation) error {
	switch op.Op {
	case OpAdd:
		*list = append(*list, op.Value)
		return nil
	case OpRemove:
		if err := checkIndex(op.Index, len(*list)); err != nil {
			return err
		}
		*list = slices.Delete(*list, op.Index, op.Index+1)
		return nil
	default:
		if err := checkIndex(op.Index, len(*list)); err != nil {
			return err
		}
		(*list)[op.Index] = op.Value
		return nil
	}
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

func personalInfoField(p *types.PersonalInfo, name string) (*string, error) {
	switch name {
	case "name":
		return &p.Name, nil
	case "location":
		return &p.Location, nil
	case "website":
		return &p.Website, nil
	case "contact":
		return &p.Contact, nil
	}
	return nil, fmt.Errorf("%w: personalInfo.%s", ErrUnknownField, name)
}

func workExperienceField(w *types.WorkExperience, name string) (*string, error) {
	switch name {
	case "title":
		return &w.Title, nil
	case "company":
		return &w.Company, nil
	case "period":
		return &w.Period, nil
	case "description":
		return &w.Description, nil
	}
	return nil, fmt.Errorf("%w: workExperience.%s", ErrUnknownField, name)
}

func educationField(e *types.Education, name string) (*string, error) {
	switch name {
	case "school":
		return &e.School, nil
	case "degree":
		return &e.Degree, nil
	case "period":
		return &e.Period, nil
	}
	return nil, fmt.Errorf("%w: education.%s", ErrUnknownField, name)
}
