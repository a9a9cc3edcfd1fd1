package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/config"
	"github.com/mithrel/hxblog/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"
)

// skipAppAnnotation marks commands that run without opening the store.
const skipAppAnnotation = "hxblog/skip-app"

// flagKeys maps command flags onto config keys they override.
var flagKeys = map[string]string{
	"db":     "db_url",
	"listen": "http_addr",
	"http3":  "http3.enabled",
	"seed":   "seed",
}

// Execute is the entrypoint: it builds the root cobra.Command
// and calls its Execute() method to run the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "hxblog",
		Short:         "hxblog: a server-rendered blog with partial-page updates",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if err := bindChangedFlags(cmd.Flags(), v, flagKeys); err != nil {
				return err
			}
			if cmd.Annotations[skipAppAnnotation] == "true" {
				cmd.SetContext(context.WithValue(cmd.Context(), cfgKey, v))
				return nil
			}
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), appKey, app)
			ctx = context.WithValue(ctx, cfgKey, v)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("db", "", "store URL (overrides db_url)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPostCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

// getConfig returns the loaded configuration, also for commands that skip
// building the app.
func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
