package services

import (
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the dd/mm/yyyy format used by every date field in forms.
const DateLayout = "02/01/2006"

// MilestoneInput carries the raw form values for adding or editing a
// billing milestone. Amounts stay strings until validated.
type MilestoneInput struct {
	ClientID    string
	Description string
	Amount      string
	DueDate     string
}

// positiveAmount rejects amounts that do not parse to a finite positive
// number in European notation.
func positiveAmount(value interface{}) error {
	s, _ := value.(string)
	v := ParseEuropeanNumber(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return validation.NewError("validation_amount", "must be a valid amount")
	}
	if v <= 0 {
		return validation.NewError("validation_amount_positive", "must be greater than zero")
	}
	return nil
}

// ValidateMilestone checks a milestone input against the set of client
// ids that belong to the project. Returns field -> message for every
// violation; an empty map means the input is valid. Save is blocked
// entirely while any error remains.
func ValidateMilestone(in MilestoneInput, projectClientIDs []string) map[string]string {
	allowed := make([]interface{}, len(projectClientIDs))
	for i, id := range projectClientIDs {
		allowed[i] = id
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.ClientID,
			validation.Required.Error("client is required"),
			validation.In(allowed...).Error("client must belong to the project")),
		validation.Field(&in.Description,
			validation.Required.Error("description is required")),
		validation.Field(&in.Amount,
			validation.Required.Error("amount is required"),
			validation.By(positiveAmount)),
		validation.Field(&in.DueDate,
			validation.Required.Error("due date is required"),
			validation.Date(DateLayout).Error("due date must be a valid dd/mm/yyyy date")),
	)

	return errorsToMap(err, map[string]string{
		"ClientID":    "client",
		"Description": "description",
		"Amount":      "amount",
		"DueDate":     "due_date",
	})
}

// TaskInput carries the raw form values for a project task.
type TaskInput struct {
	Title    string
	DueDate  string
	Priority string
	Status   string
}

// ValidateTask checks a task input. The due date is optional but must be
// calendar-valid when present.
func ValidateTask(in TaskInput, priorities, statuses []string) map[string]string {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required")),
		validation.Field(&in.DueDate,
			validation.Date(DateLayout).Error("due date must be a valid dd/mm/yyyy date")),
		validation.Field(&in.Priority,
			validation.Required.Error("priority is required"),
			validation.In(toAny(priorities)...).Error("unknown priority")),
		validation.Field(&in.Status,
			validation.Required.Error("status is required"),
			validation.In(toAny(statuses)...).Error("unknown status")),
	)

	return errorsToMap(err, map[string]string{
		"Title":    "title",
		"DueDate":  "due_date",
		"Priority": "priority",
		"Status":   "status",
	})
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// errorsToMap flattens ozzo's validation.Errors into the field -> message
// map that handlers render inline, renaming struct fields to form names.
func errorsToMap(err error, fieldNames map[string]string) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		out["form"] = err.Error()
		return out
	}

	for field, ferr := range verrs {
		name := field
		if mapped, ok := fieldNames[field]; ok {
			name = mapped
		}
		out[name] = ferr.Error()
	}
	return out
}
