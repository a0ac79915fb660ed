package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CreateSecret creates or replaces a secret in the specified namespace.
// If the secret already exists, it will be deleted and recreated to ensure
// the data is exactly as specified (not merged).
func (c *Client) CreateSecret(ctx context.Context, secret *corev1.Secret) error {
	if secret.Namespace == "" {
		return fmt.Errorf("secret namespace is required")
	}
	if secret.Name == "" {
		return fmt.Errorf("secret name is required")
	}

	secretsClient := c.clientset.CoreV1().Secrets(secret.Namespace)

	err := secretsClient.Delete(ctx, secret.Name, metav1.DeleteOptions{})
	if err != nil && !errors.IsNotFound(err) {
		return fmt.Errorf("failed to delete existing secret %s/%s: %w",
			secret.Namespace, secret.Name, err)
	}

	_, err = secretsClient.Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create secret %s/%s: %w",
			secret.Namespace, secret.Name, err)
	}

	return nil
}

// GetSecretField reads a single field from a secret. The second return
// value is false if the secret or the field does not exist.
func (c *Client) GetSecretField(ctx context.Context, namespace, name, field string) ([]byte, bool, error) {
	secret, err := c.clientset.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get secret %s/%s: %w", namespace, name, err)
	}

	value, ok := secret.Data[field]
	if !ok {
		return nil, false, nil
	}

	return value, true, nil
}
