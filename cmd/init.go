package cmd

import (
	"fmt"

	"github.com/ivan-hilckov/lucidum/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file at $HOME/.lucidum/config.json
(or the path given with --config). Edit it to set your API key.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	fmt.Printf("Created config file: %s\n", path)
	fmt.Println("Set api_key (or ANTHROPIC_API_KEY / LUCIDUM_API_KEY) before generating letters.")
	return err
}
