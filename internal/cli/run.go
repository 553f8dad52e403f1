package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Execute one assistant command and save",
		Long: "Execute one command of the interactive session, for example\n" +
			"  assistant run add \"Ann Lee\" +380671112233\n" +
			"  assistant run birthdays 7\n" +
			"Changes are saved before the command returns.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer env.log.Sync()

			session := env.session(cmd)
			_, err = session.HandleArgs(args)
			return classify(err)
		},
	}
	// Everything after the command keyword belongs to the command, so
	// "run birthdays -1" does not treat -1 as a flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
