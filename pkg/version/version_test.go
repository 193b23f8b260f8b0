package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	cases := []struct {
		description string
		given       string
		want        string
	}{
		{
			"default version when not set at build time",
			"devel",
			"devel",
		},
		{
			"version set at build time",
			"v1.2.3",
			"v1.2.3",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			saved := version
			t.Cleanup(func() { version = saved })

			version = tc.given

			assert.Equal(t, tc.want, Version())
		})
	}
}
