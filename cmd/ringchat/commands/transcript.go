package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ringchat/internal/app"
	"ringchat/internal/domain"
	"ringchat/internal/store"
)

func transcriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect or remove a saved chat transcript",
	}
	cmd.AddCommand(transcriptShowCmd(), transcriptRemoveCmd())
	return cmd
}

func transcriptShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print a saved transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := transcriptStore()
			if err != nil {
				return err
			}
			entries, err := ts.LoadTranscript(viper.GetString(app.KeyPassphrase))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				stamp := e.Time.Format("2006-01-02 15:04:05")
				if e.Kind == domain.EntrySystem {
					fmt.Fprintf(out, "%s  * %s\n", stamp, e.Text)
					continue
				}
				fmt.Fprintf(out, "%s  <%s> %s\n", stamp, e.From, e.Text)
			}
			return nil
		},
	}
}

func transcriptRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm",
		Short: "Delete a saved transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := transcriptStore()
			if err != nil {
				return err
			}
			if err := ts.Remove(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", ts.Path())
			return nil
		},
	}
}

func transcriptStore() (*store.TranscriptFileStore, error) {
	path := viper.GetString(app.KeyTranscript)
	if path == "" {
		return nil, errors.New("no transcript file; set --transcript")
	}
	return store.NewTranscriptFileStore(path), nil
}
