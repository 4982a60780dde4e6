package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Represents the 'relforge targets' command.
type TargetsCmd struct{}

// Executes the targets command.
//
// Lists the validated target table the pipeline would build, one line per
// target. Validation errors in the config surface here the same way they
// would on a run.
func (c *TargetsCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCLASS\tTRIPLE\tASSET\tCROSS")
	for _, spec := range reg.Targets() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
			spec.Name, spec.Class, spec.Triple, spec.AssetName, spec.CrossCompile)
	}
	return w.Flush()
}
