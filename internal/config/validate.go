package config

import (
	"errors"
	"fmt"
	"maps"
	"net/netip"
	"regexp"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// ValidLocations contains all valid Hetzner Cloud locations.
// https://docs.hetzner.com/cloud/general/locations/
var ValidLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// ValidNetworkZones contains all valid Hetzner Cloud network zones.
// https://docs.hetzner.com/cloud/networks/overview/
var ValidNetworkZones = map[string]bool{
	"eu-central":   true,
	"us-east":      true,
	"us-west":      true,
	"ap-southeast": true,
}

var dnsLabel = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)

// ValidationError is a problem with a single field of a blueprint file.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the file and returns every problem found, joined.
func (f *File) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if f.ID == "" {
		add("id", "is required")
	} else if !dnsLabel.MatchString(f.ID) || len(f.ID) > 63 {
		add("id", "must be DNS-safe (lowercase alphanumeric and hyphens, must start with a letter)")
	}
	if f.Region != "" && !ValidLocations[f.Region] {
		add("region", "must be one of %v", slices.Sorted(maps.Keys(ValidLocations)))
	}
	if f.Version != "" {
		if _, err := semver.NewVersion(f.Version); err != nil {
			add("version", "invalid version %q", f.Version)
		}
	}

	f.validateNetwork(add)

	keys := make(map[string]string, len(f.Resources))
	for i, r := range f.Resources {
		field := fmt.Sprintf("resources[%d]", i)
		switch {
		case r.Key == "":
			add(field+".key", "is required")
		case r.Key == "network":
			add(field+".key", "%q is reserved", r.Key)
		case keys[r.Key] != "":
			add(field+".key", "duplicate resource %q", r.Key)
		}
		keys[r.Key] = r.Type

		switch r.Type {
		case ResourceBucket:
			if r.Bucket == "" {
				add(field+".bucket", "is required for bucket resources")
			}
		case ResourcePassword:
			if r.Length != 0 && r.Length < MinPasswordLength {
				add(field+".length", "must be at least %d", MinPasswordLength)
			}
		default:
			add(field+".type", "must be %q or %q", ResourceBucket, ResourcePassword)
		}
	}

	for i, a := range f.AddOns {
		f.validateAddOn(fmt.Sprintf("addons[%d]", i), a, keys, add)
	}

	teams := make(map[string]bool, len(f.Teams))
	for i, t := range f.Teams {
		field := fmt.Sprintf("teams[%d]", i)
		if t.Name == "" {
			add(field+".name", "is required")
		} else if teams[t.Name] {
			add(field+".name", "team %s is registered more than once", t.Name)
		}
		teams[t.Name] = true

		if t.Namespace != "" && !dnsLabel.MatchString(t.Namespace) {
			add(field+".namespace", "must be a valid namespace name")
		}
		switch t.Type {
		case TeamPlatform:
			if t.Quota != nil {
				add(field+".quota", "is only supported for application teams")
			}
		case TeamApplication:
		default:
			add(field+".type", "must be %q or %q", TeamPlatform, TeamApplication)
		}
	}

	return errors.Join(errs...)
}

func (f *File) validateNetwork(add func(field, format string, args ...any)) {
	n := f.Network
	if n.ID != "" {
		return
	}
	prefix, err := netip.ParsePrefix(n.IPRange)
	if err != nil || !prefix.Addr().Is4() {
		add("network.ipRange", "must be an IPv4 CIDR, got %q", n.IPRange)
	}
	if n.Zone != "" && !ValidNetworkZones[n.Zone] {
		add("network.zone", "must be one of %v", slices.Sorted(maps.Keys(ValidNetworkZones)))
	}
	if n.PublicSubnets < 0 || n.PrivateSubnets < 0 {
		add("network", "subnet counts must not be negative")
	}
}

func (f *File) validateAddOn(field string, a AddOnSpec, resources map[string]string, add func(field, format string, args ...any)) {
	if a.Name == "" {
		add(field+".name", "is required")
	}
	if a.Namespace != "" && !dnsLabel.MatchString(a.Namespace) {
		add(field+".namespace", "must be a valid namespace name")
	}
	switch a.Type {
	case AddOnManifest:
		if len(a.Manifests) == 0 {
			add(field+".manifests", "at least one manifest is required")
		}
	case AddOnHelm:
		if a.Chart == "" {
			add(field+".chart", "is required for helm add-ons")
		}
	case AddOnSecret:
		if a.SecretName == "" {
			add(field+".secretName", "is required for secret add-ons")
		}
		if a.PasswordResource != "" {
			switch resources[a.PasswordResource] {
			case ResourcePassword:
			case "":
				add(field+".passwordResource", "unknown resource %q", a.PasswordResource)
			default:
				add(field+".passwordResource", "resource %q is not a password", a.PasswordResource)
			}
		}
	default:
		add(field+".type", "must be one of %q, %q, %q", AddOnManifest, AddOnHelm, AddOnSecret)
	}
}
