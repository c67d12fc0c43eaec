// Package service contains the business rules: message feed, replies and
// likes, the social graph, profiles and aliases, and notification fan-out.
// Handlers call into it; it talks to storage through the repository
// interfaces and returns apperror values for the handlers to translate.
package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

const unknownDisplayName = "Unknown"

// snapshotResolver memoizes uid→UserSnapshot lookups for the duration of a
// single request. One resolver is created per call and discarded with it;
// nothing is cached across requests, so profile edits are visible on the
// next read.
//
// A snapshot merges the identity provider's record (authoritative for the
// photo URL) with the profile document (display name, verified). Missing
// users resolve best-effort to a placeholder rather than failing the whole
// listing, so deleted authors still render.
type snapshotResolver struct {
	directory repository.UserDirectory
	profiles  repository.ProfileRepository

	mu    sync.Mutex
	cache map[string]*model.UserSnapshot
}

func newSnapshotResolver(directory repository.UserDirectory, profiles repository.ProfileRepository) *snapshotResolver {
	return &snapshotResolver{
		directory: directory,
		profiles:  profiles,
		cache:     make(map[string]*model.UserSnapshot),
	}
}

// Prefetch resolves the distinct uids concurrently and fills the cache.
// Subsequent Resolve calls for those uids are cache hits.
func (r *snapshotResolver) Prefetch(ctx context.Context, uids []string) error {
	distinct := make(map[string]struct{}, len(uids))
	for _, uid := range uids {
		distinct[uid] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	for uid := range distinct {
		g.Go(func() error {
			_, err := r.Resolve(ctx, uid)
			return err
		})
	}
	return g.Wait()
}

// Resolve returns the snapshot for uid, consulting the per-request cache
// first. Only backend failures propagate; a missing user or profile yields
// the placeholder snapshot.
func (r *snapshotResolver) Resolve(ctx context.Context, uid string) (*model.UserSnapshot, error) {
	r.mu.Lock()
	if snap, ok := r.cache[uid]; ok {
		r.mu.Unlock()
		return snap, nil
	}
	r.mu.Unlock()

	snap := &model.UserSnapshot{DisplayName: unknownDisplayName}

	account, err := r.directory.GetUser(ctx, uid)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if account != nil {
		snap.PhotoURL = account.PhotoURL
		if account.DisplayName != "" {
			snap.DisplayName = account.DisplayName
		}
	}

	profile, err := r.profiles.Get(ctx, uid)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if profile != nil {
		if profile.DisplayName != "" {
			snap.DisplayName = profile.DisplayName
		}
		snap.Verified = profile.Verified
	}

	r.mu.Lock()
	r.cache[uid] = snap
	r.mu.Unlock()
	return snap, nil
}
