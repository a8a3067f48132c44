// Package tasktrack tracks in-flight sync tasks in Redis: admission
// counters with a global and a per-operator cap, and a task status store
// polled by API clients.
//
// The counters are externally owned atomic state, so they survive worker
// restarts and stay correct under multiple worker processes. Each worker
// periodically asserts its own live tasks in a TTL bounded set; the
// counters are then rebuilt from the union of every worker's set, so a
// crashed worker's tasks drain once its set expires while healthy
// workers keep counting each other's tasks.
package tasktrack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	globalKey         = "sync:tasks:active:global"
	operatorKeyPrefix = "sync:tasks:active:operator:"
	liveKeyPrefix     = "sync:tasks:live:"
	statusKeyPrefix   = "sync:tasks:status:"

	// liveSeparator joins task and operator IDs inside live set members.
	// Neither side may contain it.
	liveSeparator = "|"

	defaultLiveTTL = 15 * time.Minute
)

// ErrTooManyTasks is returned when admitting a task would exceed the
// global or the operator's concurrency cap.
var ErrTooManyTasks = errors.New("too many running sync tasks")

// Status is the lifecycle state of a sync task.
type Status string

// Task lifecycle states.
const (
	StatusPending  Status = "PENDING"
	StatusProgress Status = "PROGRESS"
	StatusSuccess  Status = "SUCCESS"
	StatusFailure  Status = "FAILURE"
)

// State is the progress payload stored per task.
type State struct {
	Status    Status `json:"status"`
	Processed int32  `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// TaskRef identifies one live task on the broker.
type TaskRef struct {
	TaskID     string
	OperatorID string
}

// Limiter admits sync tasks under a global and a per-operator cap.
type Limiter struct {
	client        *redis.Client
	globalLimit   int64
	operatorLimit int64
	workerID      string
	liveTTL       time.Duration
}

// LimiterOption is custom configuration of Limiter.
type LimiterOption func(l *Limiter)

// NewLimiter returns a new Limiter.
func NewLimiter(client *redis.Client, globalLimit, operatorLimit int64, ops ...LimiterOption) *Limiter {
	limiter := &Limiter{
		client:        client,
		globalLimit:   globalLimit,
		operatorLimit: operatorLimit,
		workerID:      uuid.NewString(),
		liveTTL:       defaultLiveTTL,
	}

	for _, op := range ops {
		op(limiter)
	}

	return limiter
}

// WithWorkerID sets the worker identity of the live task set.
func WithWorkerID(workerID string) LimiterOption {
	return func(l *Limiter) {
		l.workerID = workerID
	}
}

// WithLiveTTL sets the expiry of the worker's live task set. It must
// exceed the reconcile interval or the worker drains its own tasks.
func WithLiveTTL(ttl time.Duration) LimiterOption {
	return func(l *Limiter) {
		l.liveTTL = ttl
	}
}

// Acquire admits one task for the operator. It returns ErrTooManyTasks
// when either cap would be exceeded, leaving the counters unchanged.
func (l *Limiter) Acquire(ctx context.Context, operatorID string) error {
	global, err := l.client.Incr(ctx, globalKey).Result()
	if err != nil {
		return fmt.Errorf("can't increment global task counter: %w", err)
	}
	if global > l.globalLimit {
		l.decrFloor(ctx, globalKey)
		return fmt.Errorf("%w: global cap %d reached", ErrTooManyTasks, l.globalLimit)
	}

	operator, err := l.client.Incr(ctx, operatorKeyPrefix+operatorID).Result()
	if err != nil {
		l.decrFloor(ctx, globalKey)
		return fmt.Errorf("can't increment operator task counter: %w", err)
	}
	if operator > l.operatorLimit {
		l.decrFloor(ctx, operatorKeyPrefix+operatorID)
		l.decrFloor(ctx, globalKey)
		return fmt.Errorf("%w: operator cap %d reached", ErrTooManyTasks, l.operatorLimit)
	}

	return nil
}

// Release returns the operator's task slot. It is called on success,
// failure and cancellation alike.
func (l *Limiter) Release(ctx context.Context, operatorID string) {
	l.decrFloor(ctx, operatorKeyPrefix+operatorID)
	l.decrFloor(ctx, globalKey)
}

// Reconcile asserts this worker's live tasks and rebuilds the counters
// from every worker's live set, healing drift left by crashes. Operator
// keys no live set accounts for are removed; a dead worker's set expires
// on its own and its tasks drain on the next pass.
func (l *Limiter) Reconcile(ctx context.Context, live []TaskRef) error {
	if err := l.assertLiveTasks(ctx, live); err != nil {
		return err
	}

	perOperator, total, err := l.countLiveTasks(ctx)
	if err != nil {
		return err
	}

	pipe := l.client.TxPipeline()
	pipe.Set(ctx, globalKey, total, 0)
	for operatorID, count := range perOperator {
		pipe.Set(ctx, operatorKeyPrefix+operatorID, count, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("can't rewrite task counters: %w", err)
	}

	iter := l.client.Scan(ctx, 0, operatorKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		operatorID := iter.Val()[len(operatorKeyPrefix):]
		if _, ok := perOperator[operatorID]; ok {
			continue
		}
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("can't drop stale operator counter: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("can't scan operator counters: %w", err)
	}

	return nil
}

// assertLiveTasks replaces this worker's live set, TTL bounded.
func (l *Limiter) assertLiveTasks(ctx context.Context, live []TaskRef) error {
	key := liveKeyPrefix + l.workerID

	pipe := l.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(live) > 0 {
		members := make([]interface{}, len(live))
		for ix, ref := range live {
			members[ix] = ref.TaskID + liveSeparator + ref.OperatorID
		}
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, l.liveTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("can't assert live tasks: %w", err)
	}

	return nil
}

// countLiveTasks aggregates the live sets of every worker.
func (l *Limiter) countLiveTasks(ctx context.Context) (map[string]int64, int64, error) {
	perOperator := map[string]int64{}
	var total int64

	iter := l.client.Scan(ctx, 0, liveKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		members, err := l.client.SMembers(ctx, iter.Val()).Result()
		if err != nil {
			return nil, 0, fmt.Errorf("can't read live task set: %w", err)
		}
		for _, member := range members {
			_, operatorID, found := strings.Cut(member, liveSeparator)
			if !found {
				continue
			}
			perOperator[operatorID]++
			total++
		}
	}
	if err := iter.Err(); err != nil {
		return nil, 0, fmt.Errorf("can't scan live task sets: %w", err)
	}

	return perOperator, total, nil
}

// decrFloorScript decrements a counter without letting it go negative.
// The floor has to happen inside Redis or it races a concurrent Incr.
var decrFloorScript = redis.NewScript(`
local value = redis.call("DECR", KEYS[1])
if value < 0 then
	redis.call("SET", KEYS[1], 0)
	return 0
end
return value`)

func (l *Limiter) decrFloor(ctx context.Context, key string) {
	_ = decrFloorScript.Run(ctx, l.client, []string{key}).Err()
}

// StatusStore keeps per-task progress payloads, TTL bounded.
type StatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusStore returns a new StatusStore keeping statuses for ttl.
func NewStatusStore(client *redis.Client, ttl time.Duration) *StatusStore {
	return &StatusStore{
		client: client,
		ttl:    ttl,
	}
}

// Set stores the task's state.
func (s *StatusStore) Set(ctx context.Context, taskID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("can't marshal task state: %w", err)
	}

	if err := s.client.Set(ctx, statusKeyPrefix+taskID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("can't store task state: %w", err)
	}

	return nil
}

// Get returns the task's state. Unknown tasks report StatusPending: the
// command may still be in flight on the broker.
func (s *StatusStore) Get(ctx context.Context, taskID string) (*State, error) {
	payload, err := s.client.Get(ctx, statusKeyPrefix+taskID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &State{Status: StatusPending}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get task state: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("can't unmarshal task state: %w", err)
	}

	return &state, nil
}
