package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prezm/poc-orchestrator/entity"
	"github.com/prezm/poc-orchestrator/infra"
)

// AccessRepository maintains the allow-list of identities permitted to create
// environments. The whole list lives in a single SSM parameter, so every
// mutation is a read-modify-write of the full value; a process-local mutex
// serializes mutations within one replica (see DESIGN.md on the remaining
// cross-replica race).
type AccessRepository struct {
	ssm   *infra.SSMClient
	param string
	mu    sync.Mutex
}

func NewAccessRepository(ssm *infra.SSMClient, param string) *AccessRepository {
	return &AccessRepository{
		ssm:   ssm,
		param: param,
	}
}

// List returns all access entries. Legacy stored lists of plain email strings
// are upgraded in memory to non-admin entries; the stored value is left
// untouched until the next mutation rewrites it.
func (r *AccessRepository) List(ctx context.Context) ([]entity.AccessEntry, error) {
	return r.load(ctx)
}

// Find returns the entry for email, or nil when the email is not allowed.
func (r *AccessRepository) Find(ctx context.Context, email string) (*entity.AccessEntry, error) {
	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Email == email {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// Add inserts a new entry. Adding an email that already exists succeeds
// without modifying the stored list.
func (r *AccessRepository) Add(ctx context.Context, email string, isAdmin bool) ([]entity.AccessEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Email == email {
			return entries, nil
		}
	}

	entries = append(entries, entity.AccessEntry{Email: email, IsAdmin: isAdmin})
	if err := r.save(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove deletes the entry with the exact email. Removing an absent email is
// a no-op, not an error.
func (r *AccessRepository) Remove(ctx context.Context, email string) ([]entity.AccessEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]entity.AccessEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Email != email {
			kept = append(kept, entry)
		}
	}

	if len(kept) == len(entries) {
		return entries, nil
	}

	if err := r.save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (r *AccessRepository) load(ctx context.Context) ([]entity.AccessEntry, error) {
	value, found, err := r.ssm.GetParameter(ctx, r.param)
	if err != nil {
		return nil, err
	}
	if !found || value == "" {
		return []entity.AccessEntry{}, nil
	}
	return parseAccessList(value)
}

func (r *AccessRepository) save(ctx context.Context, entries []entity.AccessEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal access list: %w", err)
	}
	return r.ssm.PutParameter(ctx, r.param, string(data), false)
}

// parseAccessList accepts both the current {email, isAdmin} shape and the
// legacy shape of plain email strings, entry by entry.
func parseAccessList(value string) ([]entity.AccessEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("parse access list: %w", err)
	}

	entries := make([]entity.AccessEntry, 0, len(raw))
	for _, item := range raw {
		var entry entity.AccessEntry
		if err := json.Unmarshal(item, &entry); err == nil {
			entries = append(entries, entry)
			continue
		}

		var email string
		if err := json.Unmarshal(item, &email); err != nil {
			return nil, fmt.Errorf("parse access list entry %s: unsupported shape", string(item))
		}
		entries = append(entries, entity.AccessEntry{Email: email, IsAdmin: false})
	}
	return entries, nil
}
