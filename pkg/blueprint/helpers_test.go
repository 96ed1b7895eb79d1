package blueprint

import (
	"context"
	"sync"
	"sync/atomic"
)

// callLog records calls from add-ons, teams and providers in order.
type callLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *callLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

type fakeAddOn struct {
	name    string
	log     *callLog
	pending Pending
	err     error
	deploy  func(ctx context.Context, info *ClusterInfo) (Pending, error)
}

func (a *fakeAddOn) Name() string { return a.name }

func (a *fakeAddOn) Deploy(ctx context.Context, info *ClusterInfo) (Pending, error) {
	if a.log != nil {
		a.log.add("deploy:" + a.name)
	}
	if a.deploy != nil {
		return a.deploy(ctx, info)
	}
	return a.pending, a.err
}

// hookAddOn is a fakeAddOn with a post-deploy hook.
type hookAddOn struct {
	fakeAddOn
	postErr error
	teams   []string
	post    func(info *ClusterInfo)
}

func (a *hookAddOn) PostDeploy(_ context.Context, info *ClusterInfo, teams []Team) error {
	if a.log != nil {
		a.log.add("post:" + a.name)
	}
	for _, t := range teams {
		a.teams = append(a.teams, t.Name())
	}
	if a.post != nil {
		a.post(info)
	}
	return a.postErr
}

type fakeTeam struct {
	name  string
	log   *callLog
	err   error
	setup func(info *ClusterInfo)
}

func (t *fakeTeam) Name() string { return t.name }

func (t *fakeTeam) Setup(_ context.Context, info *ClusterInfo) error {
	if t.log != nil {
		t.log.add("team:" + t.name)
	}
	if t.setup != nil {
		t.setup(info)
	}
	return t.err
}

type fakeClusterProvider struct {
	calls   atomic.Int32
	log     *callLog
	err     error
	network *Network
}

func (p *fakeClusterProvider) CreateCluster(_ context.Context, stack *Stack, network *Network, version KubernetesVersion) (*ClusterInfo, error) {
	p.calls.Add(1)
	p.network = network
	if p.log != nil {
		p.log.add("cluster")
	}
	if p.err != nil {
		return nil, p.err
	}
	return NewClusterInfo(Cluster{
		Name:     stack.Name,
		Version:  version,
		Endpoint: "https://" + stack.ID + ".example.com:6443",
	}, network, nil, nil), nil
}

// countingProvider counts Provide calls.
type countingProvider struct {
	calls atomic.Int32
	value any
	err   error
}

func (p *countingProvider) Provide(_ *ResourceContext) (any, error) {
	p.calls.Add(1)
	return p.value, p.err
}

// MockObserver records events. Observers derived with WithFields share the
// recorded events of their parent.
type MockObserver struct {
	rec    *mockRecord
	fields map[string]string
}

type mockRecord struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{rec: &mockRecord{}, fields: map[string]string{}}
}

func (m *MockObserver) Printf(format string, _ ...any) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.messages = append(m.rec.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.events = append(m.rec.events, mergeFields(event, m.fields))
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MockObserver{rec: m.rec, fields: merged}
}

func (m *MockObserver) Events() []Event {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]Event(nil), m.rec.events...)
}

func (m *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testNetwork() *Network {
	return &Network{ID: 1, Name: "test-network", IPRange: "10.0.0.0/16", Zone: "eu-central"}
}

// newTestBuilder returns a builder with a cluster provider and a direct
// network provider.
func newTestBuilder(cp ClusterProvider) *BlueprintBuilder {
	return NewBuilder().
		ClusterProvider(cp).
		ResourceProvider(NetworkResource, &DirectNetworkProvider{Network: testNetwork()})
}
