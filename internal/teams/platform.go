package teams

import (
	"context"

	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/pkg/blueprint"
)

// PlatformTeam administers the whole cluster.
type PlatformTeam struct {
	TeamName string
	// Namespace defaults to the team name.
	Namespace string
	Users     []string
}

var _ blueprint.Team = (*PlatformTeam)(nil)

// Name implements blueprint.Team.
func (t *PlatformTeam) Name() string {
	return t.TeamName
}

// Setup creates the team namespace and binds the team to cluster-admin.
func (t *PlatformTeam) Setup(ctx context.Context, info *blueprint.ClusterInfo) error {
	s, err := newScope(info, t.TeamName, t.Namespace)
	if err != nil {
		return err
	}
	if err := s.ensureNamespace(ctx); err != nil {
		return err
	}
	return s.ensureClusterRoleBinding(ctx, naming.TeamAdminBinding(t.TeamName), clusterRole("cluster-admin"), subjects(t.TeamName, t.Users))
}
