package commands

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindEnv(t *testing.T) {
	t.Setenv("H2OK_DRY_RUN", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("dry-run", false, "")
	flags.String("namespace", "default", "")
	require.NoError(t, flags.Parse([]string{"--namespace", "ml"}))

	v, err := bindEnv(flags)
	require.NoError(t, err)
	assert.True(t, v.GetBool("dry-run"))
	assert.Equal(t, "ml", v.GetString("namespace"))
}
