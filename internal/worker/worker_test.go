package worker

import (
	"context"
	"testing"
	"time"

	"taskify/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func setupWorkerDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Session{}, &models.Task{}, &models.Notification{}))
	return db
}

func TestJobQueueEnqueue(t *testing.T) {
	client := setupRedis(t)
	queue := NewJobQueue(client)

	err := queue.Enqueue(QueueDefault, JobTypeDueSoonScan, map[string]interface{}{"source": "test"})
	require.NoError(t, err)

	size, err := queue.GetQueueSize(QueueDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}

func TestWorkerProcessesJob(t *testing.T) {
	client := setupRedis(t)
	queue := NewJobQueue(client)

	w := NewWorker(Config{
		RedisClient: client,
		Logger:      zerolog.Nop(),
	})

	processed := make(chan *Job, 1)
	w.RegisterHandler(JobTypeDueSoonScan, func(ctx context.Context, job *Job) error {
		processed <- job
		return nil
	})

	require.NoError(t, queue.Enqueue(QueueNotifications, JobTypeDueSoonScan, nil))

	w.Start(1)
	defer w.Stop()

	select {
	case job := <-processed:
		assert.Equal(t, JobTypeDueSoonScan, job.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("job was not processed in time")
	}
}

func TestWorkerRetriesFailedJob(t *testing.T) {
	client := setupRedis(t)
	queue := NewJobQueue(client)

	w := NewWorker(Config{
		RedisClient: client,
		Logger:      zerolog.Nop(),
	})

	attempted := make(chan struct{}, 1)
	w.RegisterHandler(JobTypeSessionCleanup, func(ctx context.Context, job *Job) error {
		attempted <- struct{}{}
		return assert.AnError
	})

	require.NoError(t, queue.Enqueue(QueueCleanup, JobTypeSessionCleanup, nil))

	w.Start(1)
	defer w.Stop()

	select {
	case <-attempted:
	case <-time.After(5 * time.Second):
		t.Fatal("job was not attempted in time")
	}

	// The failed job lands on the retry queue with a backoff ProcessAt.
	assert.Eventually(t, func() bool {
		size, err := queue.GetQueueSize(retryQueue)
		return err == nil && size == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWorkerDrainsRetryQueue(t *testing.T) {
	client := setupRedis(t)
	queue := NewJobQueue(client)

	w := NewWorker(Config{
		RedisClient: client,
		Logger:      zerolog.Nop(),
	})

	processed := make(chan *Job, 1)
	w.RegisterHandler(JobTypeDueSoonScan, func(ctx context.Context, job *Job) error {
		processed <- job
		return nil
	})

	// A previously failed job whose backoff has already elapsed.
	require.NoError(t, queue.EnqueueAt(retryQueue, JobTypeDueSoonScan, nil, time.Now().Add(-time.Minute)))

	w.Start(1)
	defer w.Stop()

	select {
	case job := <-processed:
		assert.Equal(t, JobTypeDueSoonScan, job.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("retried job was not re-executed in time")
	}

	size, err := queue.GetQueueSize(retryQueue)
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
}

func TestSessionCleanupHandler(t *testing.T) {
	db := setupWorkerDB(t)

	userID := uuid.Must(uuid.NewV4())
	expired := models.Session{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	active := models.Session{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		Token:     "active-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&active).Error)

	handler := NewSessionCleanupHandler(db, zerolog.Nop())
	require.NoError(t, handler(context.Background(), &Job{Type: JobTypeSessionCleanup}))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var remaining models.Session
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, "active-token", remaining.Token)
}
