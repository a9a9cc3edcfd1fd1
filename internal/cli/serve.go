package cli

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/config"
	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/netx"
	"github.com/mithrel/hxblog/internal/wire"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blog HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v := app.Cfg
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if v.GetBool("seed") {
				if err := seedStore(ctx, app); err != nil {
					return err
				}
			}

			tlsConf, challenge, err := buildTLS(ctx, v)
			if err != nil {
				return err
			}
			return netx.Serve(ctx, netx.Options{
				Addr:      v.GetString("http_addr"),
				Handler:   app.Server().Router(),
				TLS:       tlsConf,
				HTTP3:     v.GetBool("http3.enabled"),
				Challenge: challenge,
				Logger:    app.Log,
			})
		},
	}
	cmd.Flags().String("listen", "", "listen address (override config http_addr)")
	cmd.Flags().Bool("http3", false, "also serve HTTP/3 (override config http3.enabled)")
	cmd.Flags().Bool("seed", true, "insert a welcome post into an empty store (override config seed)")
	return cmd
}

func seedStore(ctx context.Context, app *wire.App) error {
	return db.WithHandle(ctx, app.Store, func(h db.Handle) error {
		seeded, err := db.Seed(ctx, h)
		if seeded {
			app.Log.Printf("seeded empty store with welcome post")
		}
		return err
	})
}

// buildTLS picks ACME when tls.domain is set, static files when
// tls.cert_file is set, and plain HTTP otherwise.
func buildTLS(ctx context.Context, v *viper.Viper) (*tls.Config, http.Handler, error) {
	if domain := v.GetString("tls.domain"); domain != "" {
		storage := v.GetString("tls.storage_dir")
		if storage == "" {
			storage = filepath.Join(config.ResolveDataDir(v), "certmagic")
		}
		return netx.BuildCertMagicTLS(ctx, netx.CertMagicConfig{
			Domain:     domain,
			Email:      v.GetString("tls.email"),
			StorageDir: storage,
		})
	}
	if cert := v.GetString("tls.cert_file"); cert != "" {
		tlsConf, err := netx.BuildFileTLS(cert, v.GetString("tls.key_file"))
		return tlsConf, nil, err
	}
	return nil, nil, nil
}
