package argocd

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/argoboot/internal/k8s"
	"github.com/imamik/argoboot/internal/util/retry"
)

const (
	// repoSecretType labels a secret as a repository credential so the
	// Argo CD repo server picks it up.
	repoSecretTypeLabel = "argocd.argoproj.io/secret-type"
	repoSecretType      = "repository"

	initialAdminSecretName  = "argocd-initial-admin-secret"
	initialAdminSecretField = "password"
)

// RepoCredentialSecret builds the repository credential secret for a
// private Git repository.
func RepoCredentialSecret(namespace, name, repoURL, username, token string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels: map[string]string{
				repoSecretTypeLabel: repoSecretType,
			},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			"type":     []byte("git"),
			"url":      []byte(repoURL),
			"username": []byte(username),
			"password": []byte(token),
		},
	}
}

// AdminPassword retrieves the initial admin password. The secret is
// written by the controller some time after install, so the read is
// retried with backoff until it appears.
func AdminPassword(ctx context.Context, client k8s.Interface, namespace string, opts ...retry.Option) ([]byte, error) {
	var password []byte

	err := retry.Do(ctx, func() error {
		value, found, err := client.GetSecretField(ctx, namespace, initialAdminSecretName, initialAdminSecretField)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("secret %s/%s not available yet", namespace, initialAdminSecretName)
		}
		password = value
		return nil
	}, append([]retry.Option{
		retry.WithAttempts(10),
		retry.WithInitialDelay(2 * time.Second),
	}, opts...)...)

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve initial admin password: %w", err)
	}

	return password, nil
}
