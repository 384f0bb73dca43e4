package character_draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

const (
	defaultDraftTTL = 24 * time.Hour
	defaultFanOut   = 8
)

// redisRepo implements the Repository interface using Redis. Every key a
// draft owns shares the draft TTL, which is refreshed on each write.
type redisRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
	fanOut int
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client   redis.UniversalClient
	DraftTTL time.Duration // How long an untouched draft is kept (default: 24 hours)

	// FanOut bounds concurrent reads when listing an owner's drafts (default: 8)
	FanOut int
}

// NewRedisRepository creates a new Redis-backed draft repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	ttl := cfg.DraftTTL
	if ttl == 0 {
		ttl = defaultDraftTTL
	}
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}

	return &redisRepo{
		client: cfg.Client,
		ttl:    ttl,
		fanOut: fanOut,
	}
}

// key generates the Redis key for a draft
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

// characterKey points a character at the draft holding it
func (r *redisRepo) characterKey(characterID string) string {
	return fmt.Sprintf("character:%s:draft", characterID)
}

// ownerDraftsKey generates the Redis key for an owner's draft set
func (r *redisRepo) ownerDraftsKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:drafts", ownerID)
}

// Create stores a new character draft
func (r *redisRepo) Create(ctx context.Context, draft *character.CharacterDraft) error {
	if err := checkDraft(draft); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(draft.ID)).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check draft existence").WithMeta("draft_id", draft.ID)
	}
	if exists > 0 {
		return dnderr.AlreadyExistsf("draft with ID '%s' already exists", draft.ID).
			WithMeta("draft_id", draft.ID)
	}

	held, err := r.client.Exists(ctx, r.characterKey(draft.Character.ID)).Result()
	if err != nil {
		return dnderr.Wrap(err, "failed to check character draft").WithMeta("character_id", draft.Character.ID)
	}
	if held > 0 {
		return dnderr.AlreadyExistsf("character '%s' already has a draft", draft.Character.ID).
			WithMeta("character_id", draft.Character.ID)
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal draft").WithMeta("draft_id", draft.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(draft.ID), data, r.ttl)
	pipe.Set(ctx, r.characterKey(draft.Character.ID), draft.ID, r.ttl)
	pipe.SAdd(ctx, r.ownerDraftsKey(draft.OwnerID), draft.ID)
	pipe.Expire(ctx, r.ownerDraftsKey(draft.OwnerID), r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to create draft").WithMeta("draft_id", draft.ID)
	}
	return nil
}

// Get retrieves a character draft by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.CharacterDraft, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("draft ID is required")
	}

	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("draft with ID '%s' not found", id).
			WithMeta("draft_id", id)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get draft").WithMeta("draft_id", id)
	}

	var draft character.CharacterDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal draft").WithMeta("draft_id", id)
	}
	return &draft, nil
}

// GetByCharacterID retrieves the draft holding a character
func (r *redisRepo) GetByCharacterID(ctx context.Context, characterID string) (*character.CharacterDraft, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	draftID, err := r.client.Get(ctx, r.characterKey(characterID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("no draft found for character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to look up character draft").WithMeta("character_id", characterID)
	}

	return r.Get(ctx, draftID)
}

// ListByOwner loads the owner's drafts concurrently. IDs whose draft has
// expired are dropped from the owner's set.
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*character.CharacterDraft, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerDraftsKey(ownerID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list draft IDs").WithMeta("owner_id", ownerID)
	}

	loaded := make([]*character.CharacterDraft, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fanOut)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			draft, err := r.Get(gctx, id)
			if dnderr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			loaded[i] = draft
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dnderr.Wrap(err, "failed to load drafts").WithMeta("owner_id", ownerID)
	}

	drafts := make([]*character.CharacterDraft, 0, len(ids))
	var stale []any
	for i, draft := range loaded {
		if draft == nil {
			stale = append(stale, ids[i])
			continue
		}
		drafts = append(drafts, draft)
	}

	if len(stale) > 0 {
		log.Printf("DraftRepository: dropping %d expired drafts for owner %s", len(stale), ownerID)
		if err := r.client.SRem(ctx, r.ownerDraftsKey(ownerID), stale...).Err(); err != nil {
			log.Printf("DraftRepository: failed to drop expired drafts for owner %s: %v", ownerID, err)
		}
	}

	sortDrafts(drafts)
	return drafts, nil
}

// Update replaces an existing draft and refreshes its TTL
func (r *redisRepo) Update(ctx context.Context, draft *character.CharacterDraft) error {
	if err := checkDraft(draft); err != nil {
		return err
	}

	existing, err := r.Get(ctx, draft.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal draft").WithMeta("draft_id", draft.ID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(draft.ID), data, r.ttl)
	pipe.Set(ctx, r.characterKey(draft.Character.ID), draft.ID, r.ttl)
	if existing.OwnerID != draft.OwnerID {
		pipe.SRem(ctx, r.ownerDraftsKey(existing.OwnerID), draft.ID)
	}
	pipe.SAdd(ctx, r.ownerDraftsKey(draft.OwnerID), draft.ID)
	pipe.Expire(ctx, r.ownerDraftsKey(draft.OwnerID), r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to update draft").WithMeta("draft_id", draft.ID)
	}
	return nil
}

// Delete removes a draft and its index entries
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(id))
	if existing.Character != nil {
		pipe.Del(ctx, r.characterKey(existing.Character.ID))
	}
	pipe.SRem(ctx, r.ownerDraftsKey(existing.OwnerID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete draft").WithMeta("draft_id", id)
	}
	return nil
}
