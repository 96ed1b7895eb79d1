package handlers

import (
	"fmt"
)

// Validate loads and validates a blueprint file without touching any API.
func Validate(path string) error {
	f, err := loadConfigFile(path)
	if err != nil {
		return err
	}

	network := "create " + f.Network.IPRange
	if f.Network.ID != "" {
		network = "use " + f.Network.ID
	}
	fmt.Fprintf(stdout, "%s %s is valid\n", styled(okStyle, "✔"), f.ID)
	fmt.Fprintf(stdout, "  network:   %s\n", network)
	fmt.Fprintf(stdout, "  resources: %d\n", len(f.Resources))
	fmt.Fprintf(stdout, "  add-ons:   %d\n", len(f.AddOns))
	fmt.Fprintf(stdout, "  teams:     %d\n", len(f.Teams))
	return nil
}
