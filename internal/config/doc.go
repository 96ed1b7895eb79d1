// Package config loads blueprint files and runtime settings.
//
// A blueprint file is a YAML document describing one [File]: identity,
// placement, the network selection, the cluster to adopt, named resources,
// add-ons and teams in deployment order. [LoadFile] parses it strictly
// (unknown fields are rejected), applies defaults and validates it.
//
// Runtime settings that are not part of a blueprint (API timeouts, retry
// behavior, credentials) come from the environment, see [LoadTimeouts] and
// [LoadCredentials].
package config
