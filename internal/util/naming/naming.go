package naming

import "fmt"

func Network(blueprint string) string {
	return fmt.Sprintf("%s-network", blueprint)
}

func Bucket(blueprint, key string) string {
	return fmt.Sprintf("%s-%s", blueprint, key)
}

// TeamNamespace is used when a team does not name its namespace.
func TeamNamespace(team string) string {
	return team
}

func TeamAdminBinding(team string) string {
	return fmt.Sprintf("%s-team-admin", team)
}

func TeamViewBinding(team string) string {
	return fmt.Sprintf("%s-team-view", team)
}

func TeamQuota(team string) string {
	return fmt.Sprintf("%s-quota", team)
}

// AddOnAccessBinding grants a team access to an add-on namespace.
func AddOnAccessBinding(addOn, team string) string {
	return fmt.Sprintf("%s-%s-view", addOn, team)
}

// TeamGroup is the RBAC group a team's users are mapped to.
func TeamGroup(team string) string {
	return fmt.Sprintf("team:%s", team)
}
