package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/triage-sim/sim"
)

// writeDefaultConfig renders the reference department config as YAML.
// The output is a valid --config file.
func writeDefaultConfig(w io.Writer) error {
	data, err := yaml.Marshal(sim.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default department config as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultConfig(os.Stdout); err != nil {
			logrus.Fatalf("Failed to write defaults: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
