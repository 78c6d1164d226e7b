package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tl",
		Short:         "taskline (tl): manage your tasks from the terminal",
		Long:          "tl (taskline) is a client for the taskline API: sign up, log in, and create, complete, edit, filter, and delete your tasks.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newPingCmd(app),
		newAddCmd(app),
		newListCmd(app),
		newDoneCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newClearCmd(app),
	)

	return rootCmd
}
