package firebase

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

var _ repository.ProfileRepository = (*ProfileStore)(nil)

// ProfileStore keeps one document per uid in the "profiles" collection.
type ProfileStore struct {
	store *Store
}

func NewProfileStore(store *Store) *ProfileStore {
	return &ProfileStore{store: store}
}

func (p *ProfileStore) Get(ctx context.Context, uid string) (*model.Profile, error) {
	doc, err := p.store.firestore.Collection(profileCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperror.NotFound("Profile")
		}
		return nil, classify(fmt.Errorf("reading profile %s: %w", uid, err))
	}

	var profile model.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", uid, err)
	}
	profile.UID = doc.Ref.ID
	return &profile, nil
}

func (p *ProfileStore) Merge(ctx context.Context, uid string, fields map[string]any) error {
	ref := p.store.firestore.Collection(profileCollection).Doc(uid)
	if _, err := ref.Set(ctx, fields, firestore.MergeAll); err != nil {
		return classify(fmt.Errorf("merging profile %s: %w", uid, err))
	}
	return nil
}

func (p *ProfileStore) FindByAlias(ctx context.Context, alias string) (*model.Profile, error) {
	iter := p.store.firestore.Collection(profileCollection).
		Where("alias", "==", alias).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, classify(fmt.Errorf("querying alias %q: %w", alias, err))
	}

	var profile model.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", doc.Ref.ID, err)
	}
	profile.UID = doc.Ref.ID
	return &profile, nil
}

// ToggleFollow flips the actor→target edge inside a single transaction so
// the actor's following list and the target's followers list cannot diverge
// under partial failure.
func (p *ProfileStore) ToggleFollow(ctx context.Context, actorUID, targetUID string) (bool, error) {
	actorRef := p.store.firestore.Collection(profileCollection).Doc(actorUID)
	targetRef := p.store.firestore.Collection(profileCollection).Doc(targetUID)

	var following bool
	err := p.store.firestore.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		actorDoc, err := tx.Get(actorRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return apperror.NotFound("User")
			}
			return err
		}
		targetDoc, err := tx.Get(targetRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return apperror.NotFound("User")
			}
			return err
		}

		var actor, target model.Profile
		if err := actorDoc.DataTo(&actor); err != nil {
			return err
		}
		if err := targetDoc.DataTo(&target); err != nil {
			return err
		}

		if slices.Contains(actor.Following, targetUID) {
			following = false
			actor.Following = slices.DeleteFunc(actor.Following, func(uid string) bool { return uid == targetUID })
			target.Followers = slices.DeleteFunc(target.Followers, func(uid string) bool { return uid == actorUID })
		} else {
			following = true
			actor.Following = append(actor.Following, targetUID)
			target.Followers = append(target.Followers, actorUID)
		}

		if err := tx.Update(actorRef, []firestore.Update{{Path: "following", Value: actor.Following}}); err != nil {
			return err
		}
		return tx.Update(targetRef, []firestore.Update{{Path: "followers", Value: target.Followers}})
	})
	if err != nil {
		return false, classify(err)
	}
	return following, nil
}
