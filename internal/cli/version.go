package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/postfeed/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoClient: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
			if version.IsPrerelease() {
				cmd.Println("This is a prerelease build.")
			}
		},
	}
}
