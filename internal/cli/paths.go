package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newPathsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the configuration file and store locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.log.Sync()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:   %s\n", filepath.Join(env.configDir, configFileExt))
			fmt.Fprintf(out, "backend:  %s\n", env.storeCfg.Backend)
			fmt.Fprintf(out, "contacts: %s\n", env.storeCfg.ContactsPath)
			fmt.Fprintf(out, "notes:    %s\n", env.storeCfg.NotesPath)
			return nil
		},
	}
}
