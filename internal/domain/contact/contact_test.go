package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "answered", "archived"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	for _, s := range []string{"in_progress", "closed", "respondido", ""} {
		_, err := ParseStatus(s)
		assert.True(t, httperr.IsBusiness(err, "invalid_status"), "status %q", s)
	}
}
