package handlers

import (
	"fmt"
	"strings"

	"github.com/imamik/blueprints/internal/addons"
)

// ListAddOns prints the add-on types a blueprint file can declare.
func ListAddOns() error {
	var b strings.Builder
	b.WriteString(styled(titleStyle, "Add-on types"))
	b.WriteString("\n")
	for _, e := range addons.Catalog() {
		var traits []string
		if e.Async {
			traits = append(traits, "wait")
		}
		if e.PostDeploy {
			traits = append(traits, "post-deploy")
		}
		fmt.Fprintf(&b, "  %-10s %s", e.Type, e.Description)
		if len(traits) > 0 {
			b.WriteString(styled(dimStyle, " ["+strings.Join(traits, ", ")+"]"))
		}
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(stdout, b.String())
	return err
}
