package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Key layout: one JSON document per entity plus a set of IDs per entity
// type. Sets keep listings cheap without SCAN.
const (
	projectKeyPrefix = "taskdeck:project:"
	taskKeyPrefix    = "taskdeck:task:"
	memberKeyPrefix  = "taskdeck:member:"

	projectIndexKey = "taskdeck:projects"
	taskIndexKey    = "taskdeck:tasks"
	memberIndexKey  = "taskdeck:members"
)

// repo holds the shared persistence plumbing for the entity stores.
type repo struct {
	client *backend.Client
	now    func() time.Time
	newID  func() string
}

func newRepo(client *backend.Client) repo {
	return repo{
		client: client,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

func (r repo) saveJSON(ctx context.Context, key, indexKey, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r repo) loadJSON(ctx context.Context, key string, doc any) error {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == backend.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), doc); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func (r repo) deleteJSON(ctx context.Context, key, indexKey, id string) error {
	pipe := r.client.Pipeline()
	existed := pipe.Del(ctx, key)
	pipe.SRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if existed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// ids returns the members of an index set.
func (r repo) ids(ctx context.Context, indexKey string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", indexKey, err)
	}
	return ids, nil
}

// allProjects loads every indexed project. Dangling index entries (deleted
// concurrently) are skipped.
func (r repo) allProjects(ctx context.Context) ([]Project, error) {
	ids, err := r.ids(ctx, projectIndexKey)
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(ids))
	for _, id := range ids {
		var p Project
		if err := r.loadJSON(ctx, projectKeyPrefix+id, &p); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	sortByCreated(out, func(p Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (r repo) allTasks(ctx context.Context) ([]Task, error) {
	ids, err := r.ids(ctx, taskIndexKey)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(ids))
	for _, id := range ids {
		var t Task
		if err := r.loadJSON(ctx, taskKeyPrefix+id, &t); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	sortByCreated(out, func(t Task) time.Time { return t.CreatedAt })
	return out, nil
}

func (r repo) allMembers(ctx context.Context) ([]TeamMember, error) {
	ids, err := r.ids(ctx, memberIndexKey)
	if err != nil {
		return nil, err
	}
	out := make([]TeamMember, 0, len(ids))
	for _, id := range ids {
		var m TeamMember
		if err := r.loadJSON(ctx, memberKeyPrefix+id, &m); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	sortByCreated(out, func(m TeamMember) time.Time { return m.CreatedAt })
	return out, nil
}

// sortByCreated orders oldest-first so listings are stable across calls.
func sortByCreated[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).Before(created(items[j]))
	})
}

// NewRegistry wires all six Redis-backed services around one client.
func NewRegistry(client *backend.Client) Registry {
	r := newRepo(client)
	return Registry{
		Projects:   &ProjectStore{repo: r},
		Tasks:      &TaskStore{repo: r},
		Team:       &TeamStore{repo: r},
		Search:     &SearchStore{repo: r},
		Analytics:  &AnalyticsStore{repo: r},
		Assignment: &AssignmentStore{repo: r},
	}
}
