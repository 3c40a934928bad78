package sqlite

import (
	"strings"

	"github.com/example/workout-tracker/internal/persistence"
)

// mapError translates driver errors into persistence sentinels. modernc's
// driver reports constraint failures through the error text, naming the
// violated columns as table.column pairs.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed") && strings.Contains(errStr, "2067") {
		return &persistence.ConstraintViolationError{
			Table:  violatedTable(errStr),
			Fields: violatedFields(errStr),
			Err:    err,
		}
	}
	return err
}

func violatedTable(errStr string) string {
	switch {
	case strings.Contains(errStr, "workout_log_exercises"):
		return "workout_log_exercises"
	case strings.Contains(errStr, "workout_logs"):
		return "workout_logs"
	default:
		return ""
	}
}

func violatedFields(errStr string) []string {
	var fields []string
	for _, column := range []string{
		"owner_id", "program_id", "week_index", "day_index",
		"workout_log_id", "exercise_id", "id",
	} {
		if strings.Contains(errStr, "."+column) {
			fields = append(fields, column)
		}
	}
	return fields
}
