package k8sclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ApplyManifests applies multi-document YAML. Each document is decoded and
// applied separately; empty documents are skipped.
func (k *kubeClient) ApplyManifests(ctx context.Context, manifests []byte, namespace string, labels map[string]string) ([]ObjectRef, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var refs []ObjectRef
	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj.Object); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return refs, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		if err := k.applyObject(ctx, &obj, namespace, labels); err != nil {
			return refs, fmt.Errorf("failed to apply %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
		refs = append(refs, ObjectRef{
			GVK:       obj.GroupVersionKind(),
			Namespace: obj.GetNamespace(),
			Name:      obj.GetName(),
		})
	}

	return refs, nil
}

// applyObject creates the object or updates the live one in place.
func (k *kubeClient) applyObject(ctx context.Context, obj *unstructured.Unstructured, namespace string, labels map[string]string) error {
	if obj.GetKind() == "" {
		return errors.New("object has no kind set")
	}
	if obj.GetName() == "" {
		return errors.New("object has no name set")
	}

	namespaced, err := k.c.IsObjectNamespaced(obj)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", obj.GroupVersionKind(), err)
	}
	if namespaced && obj.GetNamespace() == "" {
		ns := namespace
		if ns == "" {
			ns = "default"
		}
		obj.SetNamespace(ns)
	}

	if len(labels) > 0 {
		merged := obj.GetLabels()
		if merged == nil {
			merged = make(map[string]string, len(labels))
		}
		maps.Copy(merged, labels)
		obj.SetLabels(merged)
	}

	live := &unstructured.Unstructured{}
	live.SetGroupVersionKind(obj.GroupVersionKind())
	err = k.c.Get(ctx, client.ObjectKeyFromObject(obj), live)
	switch {
	case apierrors.IsNotFound(err):
		return k.c.Create(ctx, obj)
	case err != nil:
		return err
	}

	obj.SetResourceVersion(live.GetResourceVersion())
	return k.c.Update(ctx, obj)
}
