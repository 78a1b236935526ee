package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cliVersion   = "dev"
	cliBuildDate = "unknown"
	cliGitCommit = "unknown"
)

// SetVersion records build information injected by the linker.
func SetVersion(version, buildDate, gitCommit string) {
	cliVersion = version
	cliBuildDate = buildDate
	cliGitCommit = gitCommit
}

func NewVersionCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the version, build date, and git commit of OMM.",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(root.opts)
		},
	}
}

func printVersion(opts *OutputOptions) {
	if opts.Format == OutputJSON || opts.Format == OutputYAML {
		opts.Print(map[string]string{
			"version":   cliVersion,
			"buildDate": cliBuildDate,
			"gitCommit": cliGitCommit,
		}, nil, nil)
		return
	}

	fmt.Fprintf(opts.Writer, "OMM version %s\n", cliVersion)
	fmt.Fprintf(opts.Writer, "  Commit: %s\n", cliGitCommit)
	fmt.Fprintf(opts.Writer, "  Built:  %s\n", cliBuildDate)
}
