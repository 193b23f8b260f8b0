package query

import (
	"fmt"
	"strings"
)

// Format is the response format requested with the [out:...] setting.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

var formats = []Format{FormatXML, FormatJSON}

func (f Format) String() string {
	return string(f)
}

func (f *Format) Set(s string) error {
	for _, v := range formats {
		if s == string(v) {
			*f = v
			return nil
		}
	}
	return &ValueError{Given: s, Allowed: names(formats)}
}

func (f *Format) Type() string {
	return "format"
}

// Output is the verbosity of the out statement appended to a query.
type Output string

const (
	OutputIDs    Output = "ids"
	OutputSkel   Output = "skel"
	OutputBody   Output = "body"
	OutputTags   Output = "tags"
	OutputMeta   Output = "meta"
	OutputCenter Output = "center"
	OutputGeom   Output = "geom"
)

var outputs = []Output{OutputIDs, OutputSkel, OutputBody, OutputTags, OutputMeta, OutputCenter, OutputGeom}

func (o Output) String() string {
	return string(o)
}

func (o *Output) Set(s string) error {
	for _, v := range outputs {
		if s == string(v) {
			*o = v
			return nil
		}
	}
	return &ValueError{Given: s, Allowed: names(outputs)}
}

func (o *Output) Type() string {
	return "output"
}

type ValueError struct {
	Given   string
	Allowed []string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q (possible values: %s)", e.Given, strings.Join(e.Allowed, ", "))
}

func names[T ~string](values []T) []string {
	s := make([]string, 0, len(values))
	for _, v := range values {
		s = append(s, string(v))
	}
	return s
}
