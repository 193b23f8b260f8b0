package cmd

import (
	"fmt"
	"strings"
)

const bboxValues = 4

// normalizeArgs folds flags taking several space-separated values into the
// comma-separated form the flag parser understands. --bbox always consumes
// four values, so negative coordinates are fine. --diff and --adiff consume
// one value and a second one when it does not look like a flag. A missing
// value is reported here since pflag would take the next flag as the value.
func normalizeArgs(args []string) ([]string, error) {
	normalized := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--":
			return append(normalized, args[i:]...), nil

		case "--bbox":
			if len(args)-i-1 < bboxValues {
				return nil, fmt.Errorf("flag --bbox needs %d values: MIN_LON MIN_LAT MAX_LON MAX_LAT", bboxValues)
			}
			values := args[i+1 : i+1+bboxValues]
			normalized = append(normalized, arg+"="+strings.Join(values, ","))
			i += bboxValues

		case "--diff", "--adiff":
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				return nil, fmt.Errorf("flag %s needs a value: FROM [TO]", arg)
			}
			values := []string{args[i+1]}
			i++
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				values = append(values, args[i+1])
				i++
			}
			normalized = append(normalized, arg+"="+strings.Join(values, ","))

		default:
			normalized = append(normalized, arg)
		}
	}

	return normalized, nil
}
