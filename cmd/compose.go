package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/triage-sim/sim/workload"
)

var composeFromPaths []string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Merge multiple workload specs into one",
	Long:  "Load multiple WorkloadSpec YAML files and merge their patients and generators. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(composeFromPaths) == 0 {
			logrus.Fatalf("at least one --from flag is required")
		}

		var specs []*workload.WorkloadSpec
		for _, path := range composeFromPaths {
			spec, err := workload.LoadWorkloadSpec(path)
			if err != nil {
				logrus.Fatalf("Failed to load spec %s: %v", path, err)
			}
			specs = append(specs, spec)
		}

		merged, err := workload.ComposeSpecs(specs)
		if err != nil {
			logrus.Fatalf("Compose failed: %v", err)
		}
		if err := merged.Validate(); err != nil {
			logrus.Fatalf("Composed spec is invalid: %v", err)
		}
		writeSpecToStdout(merged)
	},
}

func writeSpecToStdout(spec *workload.WorkloadSpec) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	composeCmd.Flags().StringArrayVar(&composeFromPaths, "from", nil, "Path to WorkloadSpec YAML file (can be repeated)")
	_ = composeCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(composeCmd)
}
