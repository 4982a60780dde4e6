package cli

import (
	"context"
	"fmt"

	"github.com/relforgehq/relforge/internal"
)

// Represents the 'relforge version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
