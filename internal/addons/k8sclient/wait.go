package k8sclient

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// WaitForWorkloads polls the workloads among refs until all are ready.
// Other kinds are ignored.
func (k *kubeClient) WaitForWorkloads(ctx context.Context, refs []ObjectRef, poll time.Duration) error {
	var pending []ObjectRef
	for _, ref := range refs {
		if ref.GVK.Group == appsv1.GroupName && isWorkloadKind(ref.GVK.Kind) {
			pending = append(pending, ref)
		}
	}

	var notReady ObjectRef
	err := wait.PollUntilContextCancel(ctx, poll, true, func(ctx context.Context) (bool, error) {
		for len(pending) > 0 {
			ready, err := k.workloadReady(ctx, pending[0])
			if err != nil {
				return false, err
			}
			if !ready {
				notReady = pending[0]
				return false, nil
			}
			pending = pending[1:]
		}
		return true, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s not ready: %w", notReady, ctx.Err())
		}
		return err
	}
	return nil
}

func isWorkloadKind(kind string) bool {
	switch kind {
	case "Deployment", "StatefulSet", "DaemonSet":
		return true
	}
	return false
}

func (k *kubeClient) workloadReady(ctx context.Context, ref ObjectRef) (bool, error) {
	key := client.ObjectKey{Namespace: ref.Namespace, Name: ref.Name}

	switch ref.GVK.Kind {
	case "Deployment":
		var d appsv1.Deployment
		if err := k.c.Get(ctx, key, &d); err != nil {
			return false, client.IgnoreNotFound(err)
		}
		return d.Status.ObservedGeneration >= d.Generation &&
			d.Status.ReadyReplicas >= replicas(d.Spec.Replicas), nil
	case "StatefulSet":
		var s appsv1.StatefulSet
		if err := k.c.Get(ctx, key, &s); err != nil {
			return false, client.IgnoreNotFound(err)
		}
		return s.Status.ObservedGeneration >= s.Generation &&
			s.Status.ReadyReplicas >= replicas(s.Spec.Replicas), nil
	case "DaemonSet":
		var ds appsv1.DaemonSet
		if err := k.c.Get(ctx, key, &ds); err != nil {
			return false, client.IgnoreNotFound(err)
		}
		return ds.Status.ObservedGeneration >= ds.Generation &&
			ds.Status.NumberReady >= ds.Status.DesiredNumberScheduled, nil
	}
	return true, nil
}

func replicas(r *int32) int32 {
	if r == nil {
		return 1
	}
	return *r
}
