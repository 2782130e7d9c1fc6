package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable that can stand in
// for a flag, e.g. H2OK_CLUSTER_SIZE for --cluster-size.
const EnvPrefix = "H2OK"

// bindEnv returns a viper instance resolving each flag in flags from, in
// order, the command line, the environment and the flag default.
func bindEnv(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}
