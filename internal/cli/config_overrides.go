package cli

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/config"
)

// bindChangedFlags points config keys at the flags the user actually passed.
// A flag overrides the key named in aliases, else the key of the same name.
// Untouched flags never shadow file or env values.
func bindChangedFlags(flags *pflag.FlagSet, v *viper.Viper, aliases map[string]string) error {
	known := make(map[string]bool)
	for _, opt := range config.GetConfigOptions() {
		known[opt.Key] = true
	}
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := aliases[f.Name]
		if !ok {
			if !known[f.Name] {
				return
			}
			key = f.Name
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}
