package k8s

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/argoboot/internal/util/poll"
)

var crdGVR = schema.GroupVersionResource{
	Group:    "apiextensions.k8s.io",
	Version:  "v1",
	Resource: "customresourcedefinitions",
}

// HasCRD reports whether the named CustomResourceDefinition exists and
// has reached the Established condition.
func (c *Client) HasCRD(ctx context.Context, name string) (bool, error) {
	crd, err := c.dynamicClient.Resource(crdGVR).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get CRD %s: %w", name, err)
	}

	conditions, found, err := unstructured.NestedSlice(crd.Object, "status", "conditions")
	if err != nil || !found {
		return false, nil
	}

	for _, raw := range conditions {
		condition, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if condition["type"] == "Established" && condition["status"] == "True" {
			return true, nil
		}
	}

	return false, nil
}

// DeploymentAvailable reports whether the deployment has all desired
// replicas available.
func (c *Client) DeploymentAvailable(ctx context.Context, namespace, name string) (bool, error) {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return isDeploymentAvailable(deployment), nil
}

// DaemonSetRolledOut reports whether the daemonset has ready == desired
// with desired > 0. The numeric convergence is expressed as a boolean
// so it can feed the condition poller like any other probe.
func (c *Client) DaemonSetRolledOut(ctx context.Context, namespace, name string) (bool, error) {
	daemonSet, err := c.clientset.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	desired := daemonSet.Status.DesiredNumberScheduled
	return desired > 0 &&
		daemonSet.Status.NumberReady == desired &&
		daemonSet.Status.NumberAvailable == desired, nil
}

// ServiceHasEndpoints reports whether the service has at least one
// ready endpoint address.
func (c *Client) ServiceHasEndpoints(ctx context.Context, namespace, name string) (bool, error) {
	endpoints, err := c.clientset.CoreV1().Endpoints(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	for _, subset := range endpoints.Subsets {
		if len(subset.Addresses) > 0 {
			return true, nil
		}
	}

	return false, nil
}

// DeleteNamespace deletes a namespace and waits up to timeout for it
// to terminate. A namespace that never existed is not an error.
func (c *Client) DeleteNamespace(ctx context.Context, name string, timeout time.Duration) error {
	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}

	result := poll.Until(ctx, func(ctx context.Context) (bool, error) {
		_, err := c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}, poll.WithTimeout(timeout), poll.WithInterval(2*time.Second))

	if result.Outcome != poll.Succeeded {
		return fmt.Errorf("namespace %s still terminating after %s", name, timeout)
	}
	return nil
}

func isDeploymentAvailable(deployment *appsv1.Deployment) bool {
	if deployment.Spec.Replicas == nil {
		return false
	}
	replicas := *deployment.Spec.Replicas
	if deployment.Status.UpdatedReplicas != replicas ||
		deployment.Status.Replicas != replicas ||
		deployment.Status.AvailableReplicas != replicas {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}

	return false
}
