package main

import (
	"context"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"ringchat/internal/crypto"
	"ringchat/internal/domain"
	"ringchat/internal/metrics"
	"ringchat/internal/relay"
)

const (
	keyListen    = "listen"
	keyMinRing   = "min-ring"
	keyPrime     = "group-prime"
	keyGenerator = "group-generator"
	keyVerbose   = "verbose"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Forward ringchat frames between connected clients",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.SetEnvPrefix("RINGRELAY")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			if viper.GetBool(keyVerbose) {
				jww.SetStdoutThreshold(jww.LevelDebug)
			} else {
				jww.SetStdoutThreshold(jww.LevelInfo)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := groupParameters(viper.GetString(keyPrime), viper.GetString(keyGenerator))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, viper.GetString(keyListen), params, viper.GetInt(keyMinRing))
		},
	}

	f := cmd.Flags()
	f.String(keyListen, ":8765", "listen address; / is the WebSocket endpoint, /metrics the Prometheus one")
	f.Int(keyMinRing, domain.MinRingSize, "smallest ring that starts key agreement")
	f.String(keyPrime, "", "group prime p in decimal (default RFC 3526 2048-bit MODP)")
	f.String(keyGenerator, "", "group generator g in decimal (default 2)")
	f.BoolP(keyVerbose, "v", false, "verbose logging")
	for _, key := range []string{keyListen, keyMinRing, keyPrime, keyGenerator, keyVerbose} {
		if err := viper.BindPFlag(key, f.Lookup(key)); err != nil {
			jww.FATAL.Panicf("Error on binding flag \"%s\":%+v", key, err)
		}
	}
	return cmd
}

// groupParameters overrides the default group with any decimal values given.
func groupParameters(p, g string) (domain.GroupParameters, error) {
	params := relay.DefaultGroupParameters()
	var err error
	if p != "" {
		if params.P, err = crypto.ParseDecimal(p); err != nil {
			return domain.GroupParameters{}, errors.WithMessage(err, "group prime")
		}
	}
	if g != "" {
		if params.G, err = crypto.ParseDecimal(g); err != nil {
			return domain.GroupParameters{}, errors.WithMessage(err, "group generator")
		}
	}
	if params.P.Cmp(big.NewInt(3)) < 0 || params.G.Sign() <= 0 || params.G.Cmp(params.P) >= 0 {
		return domain.GroupParameters{}, errors.Wrap(domain.ErrMalformedInput, "group parameters out of range")
	}
	return params, nil
}

func serve(ctx context.Context, addr string, params domain.GroupParameters, minRing int) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := relay.NewHub(relay.Config{
		Params:  params,
		MinRing: minRing,
		Metrics: metrics.NewRelayCollector(reg),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", hub)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		jww.INFO.Printf("relay listening on %s (p: %d bits, min ring %d)", addr, params.P.BitLen(), minRing)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	jww.INFO.Println("relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
