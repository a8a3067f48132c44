package tasktrack_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/doorland/catalog-sync/internal/platform/tasktrack"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestTasktrackIntegration(t *testing.T) {
	suite.Run(t, new(TasktrackTestSuite))
}

type TasktrackTestSuite struct {
	suite.Suite
	client *redis.Client
}

func (s *TasktrackTestSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		s.T().Skip("please provide redis address via REDIS_ADDR environment variable")
	}

	s.client = redis.NewClient(&redis.Options{Addr: addr})
	s.cleanup()
}

func (s *TasktrackTestSuite) TearDownSuite() {
	if s.client == nil {
		return
	}
	s.cleanup()
	if err := s.client.Close(); err != nil {
		s.FailNow("close redis client", err)
	}
}

func (s *TasktrackTestSuite) cleanup() {
	s.T().Helper()

	keys, err := s.client.Keys(context.TODO(), "sync:tasks:*").Result()
	s.Require().NoError(err, "shouldn't fail listing keys")
	if len(keys) > 0 {
		s.Require().NoError(s.client.Del(context.TODO(), keys...).Err(), "shouldn't fail deleting keys")
	}
}

func (s *TasktrackTestSuite) TestIntegrationAcquireRelease() {
	defer s.cleanup()

	limiter := tasktrack.NewLimiter(s.client, 3, 2)

	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-a"), "first task should be admitted")
	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-a"), "second task should be admitted")

	err := limiter.Acquire(context.TODO(), "operator-a")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "third task should hit the operator cap")

	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-b"), "other operator should still be admitted")

	err = limiter.Acquire(context.TODO(), "operator-c")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "fourth task should hit the global cap")

	limiter.Release(context.TODO(), "operator-a")
	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-c"), "released slot should be reusable")
}

func (s *TasktrackTestSuite) TestIntegrationReleaseFloorsAtZero() {
	defer s.cleanup()

	limiter := tasktrack.NewLimiter(s.client, 2, 2)

	limiter.Release(context.TODO(), "operator-a")
	limiter.Release(context.TODO(), "operator-a")

	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-a"), "first task should be admitted")
	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-a"), "second task should be admitted")
	err := limiter.Acquire(context.TODO(), "operator-a")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "caps should hold after spurious releases")
}

func (s *TasktrackTestSuite) TestIntegrationReconcile() {
	defer s.cleanup()

	limiter := tasktrack.NewLimiter(s.client, 2, 2, tasktrack.WithWorkerID("worker-a"))

	// Leave counters exhausted as a crashed worker would.
	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-a"))
	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-b"))

	live := []tasktrack.TaskRef{
		{TaskID: uuid.NewString(), OperatorID: "operator-a"},
	}
	s.Require().NoError(limiter.Reconcile(context.TODO(), live), "shouldn't return any error")

	s.Require().NoError(limiter.Acquire(context.TODO(), "operator-b"), "healed counter should admit again")
	err := limiter.Acquire(context.TODO(), "operator-b")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "global cap should count the surviving task")
}

func (s *TasktrackTestSuite) TestIntegrationReconcileKeepsOtherWorkersTasks() {
	defer s.cleanup()

	workerA := tasktrack.NewLimiter(s.client, 3, 2, tasktrack.WithWorkerID("worker-a"))
	workerB := tasktrack.NewLimiter(s.client, 3, 2, tasktrack.WithWorkerID("worker-b"))

	s.Require().NoError(workerA.Acquire(context.TODO(), "operator-a"))
	s.Require().NoError(workerA.Acquire(context.TODO(), "operator-a"))
	s.Require().NoError(workerB.Acquire(context.TODO(), "operator-b"))

	liveA := []tasktrack.TaskRef{
		{TaskID: uuid.NewString(), OperatorID: "operator-a"},
		{TaskID: uuid.NewString(), OperatorID: "operator-a"},
	}
	liveB := []tasktrack.TaskRef{
		{TaskID: uuid.NewString(), OperatorID: "operator-b"},
	}
	s.Require().NoError(workerA.Reconcile(context.TODO(), liveA), "shouldn't return any error")
	s.Require().NoError(workerB.Reconcile(context.TODO(), liveB), "shouldn't return any error")

	err := workerB.Acquire(context.TODO(), "operator-a")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "operator cap should count the other worker's tasks")

	err = workerB.Acquire(context.TODO(), "operator-c")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "global cap should count the other worker's tasks")

	workerA.Release(context.TODO(), "operator-a")
	s.Require().NoError(workerB.Acquire(context.TODO(), "operator-c"), "released slot should be reusable")
}

func (s *TasktrackTestSuite) TestIntegrationReconcileDrainsDeadWorker() {
	defer s.cleanup()

	workerA := tasktrack.NewLimiter(s.client, 2, 2,
		tasktrack.WithWorkerID("worker-a"),
		tasktrack.WithLiveTTL(time.Millisecond*100),
	)
	workerB := tasktrack.NewLimiter(s.client, 2, 2, tasktrack.WithWorkerID("worker-b"))

	s.Require().NoError(workerA.Acquire(context.TODO(), "operator-a"))
	s.Require().NoError(workerB.Acquire(context.TODO(), "operator-b"))

	liveA := []tasktrack.TaskRef{{TaskID: uuid.NewString(), OperatorID: "operator-a"}}
	liveB := []tasktrack.TaskRef{{TaskID: uuid.NewString(), OperatorID: "operator-b"}}
	s.Require().NoError(workerA.Reconcile(context.TODO(), liveA), "shouldn't return any error")
	s.Require().NoError(workerB.Reconcile(context.TODO(), liveB), "shouldn't return any error")

	err := workerB.Acquire(context.TODO(), "operator-c")
	s.Require().ErrorIs(err, tasktrack.ErrTooManyTasks, "global cap should hold while both workers live")

	// worker A dies without releasing, its live set expires
	<-time.After(time.Millisecond * 200)
	s.Require().NoError(workerB.Reconcile(context.TODO(), liveB), "shouldn't return any error")

	s.Require().NoError(workerB.Acquire(context.TODO(), "operator-a"), "dead worker's slots should drain")
}

func (s *TasktrackTestSuite) TestIntegrationStatusStore() {
	defer s.cleanup()

	store := tasktrack.NewStatusStore(s.client, time.Hour)
	taskID := uuid.NewString()

	state, err := store.Get(context.TODO(), taskID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(tasktrack.StatusPending, state.Status, "unknown task should be pending")

	want := tasktrack.State{
		Status:    tasktrack.StatusProgress,
		Processed: 3,
	}
	s.Require().NoError(store.Set(context.TODO(), taskID, want), "shouldn't return any error")

	state, err = store.Get(context.TODO(), taskID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(want, *state, "should return stored state")

	want = tasktrack.State{
		Status:  tasktrack.StatusFailure,
		Message: "catalog unreachable",
	}
	s.Require().NoError(store.Set(context.TODO(), taskID, want), "shouldn't return any error")

	state, err = store.Get(context.TODO(), taskID)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(want, *state, "should return latest state")
}
