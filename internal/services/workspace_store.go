package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	dm "stajdefteri/internal/models/domain_models"
	mem "stajdefteri/pkg/memcache"
	"stajdefteri/pkg/utils"
)

// WorkspaceStore keeps each student's working day list between requests.
type WorkspaceStore interface {
	Load(ctx context.Context, studentID string) (*dm.Journal, bool, error)
	Save(ctx context.Context, j *dm.Journal) error
	Delete(ctx context.Context, studentID string) error
}

// WorkspaceLocker serializes the load-modify-save cycle for one student.
// A store that is shared between instances implements it so the cycle is
// exclusive across all of them.
type WorkspaceLocker interface {
	Lock(ctx context.Context, studentID string) (unlock func(), err error)
}

type memoryWorkspaceStore struct {
	sessions *mem.Sessions[dm.Journal]
	ttl      time.Duration
}

func NewMemoryWorkspaceStore(ttl time.Duration) WorkspaceStore {
	return &memoryWorkspaceStore{sessions: mem.NewSessions[dm.Journal](), ttl: ttl}
}

func (s *memoryWorkspaceStore) Load(_ context.Context, studentID string) (*dm.Journal, bool, error) {
	j, ok := s.sessions.Peek(studentID)
	if !ok {
		return nil, false, nil
	}
	return copyJournal(j), true, nil
}

func (s *memoryWorkspaceStore) Save(_ context.Context, j *dm.Journal) error {
	s.sessions.Set(j.StudentID, *copyJournal(*j), s.ttl)
	return nil
}

func (s *memoryWorkspaceStore) Delete(_ context.Context, studentID string) error {
	s.sessions.Delete(studentID)
	return nil
}

func copyJournal(j dm.Journal) *dm.Journal {
	out := j
	out.Days = append([]dm.DayEntry(nil), j.Days...)
	return &out
}

type redisWorkspaceStore struct {
	rdb   *goredis.Client
	ttl   time.Duration
	locks *redisStudentLocks
}

func NewRedisWorkspaceStore(rdb *goredis.Client, ttl time.Duration) WorkspaceStore {
	return &redisWorkspaceStore{rdb: rdb, ttl: ttl, locks: newRedisStudentLocks(rdb)}
}

func (s *redisWorkspaceStore) Lock(ctx context.Context, studentID string) (func(), error) {
	return s.locks.Lock(ctx, studentID)
}

func workspaceKey(studentID string) string { return "stajdefteri:workspace:" + studentID }

func (s *redisWorkspaceStore) Load(ctx context.Context, studentID string) (*dm.Journal, bool, error) {
	raw, err := s.rdb.Get(ctx, workspaceKey(studentID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var j dm.Journal
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, false, err
	}
	return &j, true, nil
}

func (s *redisWorkspaceStore) Save(ctx context.Context, j *dm.Journal) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, workspaceKey(j.StudentID), raw, s.ttl).Err()
}

func (s *redisWorkspaceStore) Delete(ctx context.Context, studentID string) error {
	return s.rdb.Del(ctx, workspaceKey(studentID)).Err()
}

// studentLocks hands out one mutex per student. The working list is replaced
// whole under the lock; slow external calls happen outside it.
type studentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *studentLocks) Lock(_ context.Context, studentID string) (func(), error) {
	return l.lock(studentID), nil
}

func (l *studentLocks) lock(studentID string) func() {
	l.mu.Lock()
	m, ok := l.locks[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[studentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// redisLockClient is the part of the Redis client the lock needs.
type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// Deletes the key only while it still holds our token.
const releaseLockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`

// redisStudentLocks takes the in-process mutex first, then a SET NX key with
// a lease. The lease bounds how long a crashed instance can hold a student.
type redisStudentLocks struct {
	local  *studentLocks
	client redisLockClient
	lease  time.Duration
	wait   time.Duration
	poll   time.Duration
}

func newRedisStudentLocks(client redisLockClient) *redisStudentLocks {
	return &redisStudentLocks{
		local:  newStudentLocks(),
		client: client,
		lease:  15 * time.Second,
		wait:   5 * time.Second,
		poll:   25 * time.Millisecond,
	}
}

func workspaceLockKey(studentID string) string { return "stajdefteri:workspace-lock:" + studentID }

func (l *redisStudentLocks) Lock(ctx context.Context, studentID string) (func(), error) {
	unlockLocal := l.local.lock(studentID)
	key := workspaceLockKey(studentID)
	token := uuid.NewString()
	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.lease).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("%w: workspace lock: %v", utils.ErrDatabaseError, err)
		}
		if ok {
			return func() {
				// Released even when the request context is gone.
				_ = l.client.Eval(context.WithoutCancel(ctx), releaseLockScript, []string{key}, token).Err()
				unlockLocal()
			}, nil
		}
		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		case <-deadline.C:
			unlockLocal()
			return nil, utils.ErrWorkspaceLocked
		case <-time.After(l.poll):
		}
	}
}
