package repository

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	appConfig "github.com/prezm/poc-orchestrator/config"
	"github.com/prezm/poc-orchestrator/entity"
	"github.com/prezm/poc-orchestrator/infra"
)

// PasswordLength is fixed so the secret can be embedded unescaped inside the
// generated bootstrap script.
const PasswordLength = 20

type CredentialRepository struct {
	ssm *infra.SSMClient
	cfg *appConfig.EnvConfig
}

func NewCredentialRepository(ssm *infra.SSMClient, cfg *appConfig.EnvConfig) *CredentialRepository {
	return &CredentialRepository{
		ssm: ssm,
		cfg: cfg,
	}
}

// Provision derives the admin username, generates the admin password and
// stores both encrypted under the environment's parameter path. Writes
// overwrite any prior value for the same environment id.
func (r *CredentialRepository) Provision(ctx context.Context, envID string) (entity.Credential, error) {
	password, err := GeneratePassword(PasswordLength)
	if err != nil {
		return entity.Credential{}, fmt.Errorf("generate admin password: %w", err)
	}

	credential := entity.Credential{
		EnvID:    envID,
		Username: "admin_" + envID,
		Password: password,
	}

	if err := r.ssm.PutParameter(ctx, r.cfg.CredentialParam(envID, "username"), credential.Username, true); err != nil {
		return entity.Credential{}, err
	}
	if err := r.ssm.PutParameter(ctx, r.cfg.CredentialParam(envID, "password"), credential.Password, true); err != nil {
		return entity.Credential{}, err
	}

	return credential, nil
}

// GetPassword reads the stored admin password for display in the inventory.
func (r *CredentialRepository) GetPassword(ctx context.Context, envID string) (string, bool, error) {
	return r.getField(ctx, envID, "password")
}

func (r *CredentialRepository) getField(ctx context.Context, envID, field string) (string, bool, error) {
	value, found, err := r.ssm.GetParameter(ctx, r.cfg.CredentialParam(envID, field))
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// GeneratePassword returns a fixed-length alphanumeric secret from a
// cryptographically strong source. Base64 output is stripped of every
// non-alphanumeric character so the result is shell-safe by construction.
func GeneratePassword(length int) (string, error) {
	var sb strings.Builder
	for sb.Len() < length {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		for _, ch := range base64.StdEncoding.EncodeToString(raw) {
			if isAlphanumeric(ch) {
				sb.WriteRune(ch)
				if sb.Len() == length {
					break
				}
			}
		}
	}
	return sb.String(), nil
}

func isAlphanumeric(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
