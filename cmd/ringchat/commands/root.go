package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"ringchat/internal/app"
	"ringchat/internal/services/session"
)

var (
	cfgFile string
	logFile *os.File
)

// Execute runs the ringchat CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ringchat",
		Short: "Group chat keyed by a ring Diffie-Hellman agreement",
		Long: `ringchat joins a relay, agrees a shared group key with every ring
member and encrypts chat messages with it. The relay only forwards frames.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			return initLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default <home>/ringchat.yaml)")
	pf.String(app.KeyHome, "", "config dir (default ~/.ringchat)")
	pf.String(app.KeyRelay, app.DefaultRelayURL, "relay WebSocket URL")
	pf.StringP(app.KeyPassphrase, "p", "", "passphrase that seals the transcript")
	pf.String(app.KeyTranscript, "", "transcript file written on exit (default none)")
	pf.Int(app.KeyLogLimit, session.DefaultLogLimit, "maximum number of log entries kept")
	pf.String(app.KeyMetricsAddr, "", "serve Prometheus metrics on this address")
	pf.BoolP(app.KeyVerbose, "v", false, "verbose logging")

	for _, key := range []string{
		app.KeyHome, app.KeyRelay, app.KeyPassphrase, app.KeyTranscript,
		app.KeyLogLimit, app.KeyMetricsAddr, app.KeyVerbose,
	} {
		handleBindingError(viper.BindPFlag(key, pf.Lookup(key)), key)
	}

	root.AddCommand(chatCmd(), transcriptCmd())
	return root
}

func handleBindingError(err error, flag string) {
	if err != nil {
		jww.FATAL.Panicf("Error on binding flag \"%s\":%+v", flag, err)
	}
}

// initConfig reads the config file and RINGCHAT_* environment variables.
func initConfig() error {
	viper.SetEnvPrefix("RINGCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	home, err := homeDir()
	if err != nil {
		return err
	}
	viper.Set(app.KeyHome, home)
	if err := os.MkdirAll(home, 0o700); err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = filepath.Join(home, "ringchat.yaml")
		if _, err := os.Stat(path); err != nil {
			// No config file; flags and env only.
			return nil
		}
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		jww.ERROR.Printf("Unable to read config file (%s): %+v", path, err)
		return err
	}
	return nil
}

// initLog sends jww output to <home>/ringchat.log so it stays off the
// terminal the TUI draws on.
func initLog() error {
	if viper.GetBool(app.KeyVerbose) {
		jww.SetLogThreshold(jww.LevelDebug)
	} else {
		jww.SetLogThreshold(jww.LevelInfo)
	}
	jww.SetStdoutThreshold(jww.LevelError)

	path := filepath.Join(viper.GetString(app.KeyHome), "ringchat.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	jww.SetLogOutput(logFile)
	return nil
}

func homeDir() (string, error) {
	if h := viper.GetString(app.KeyHome); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".ringchat"), nil
}
