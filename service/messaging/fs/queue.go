// Package fs provides a durable messaging.Queue over any afs-supported
// location. Messages survive restarts: unacknowledged ones stay on disk.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/govflow/internal/idgen"
	"github.com/viant/govflow/service/messaging"
)

// MessageState represents the state of a message in the filesystem queue
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateFailed     MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue.
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack removes the message from the queue.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return m.queue.remove(context.Background(), m.queue.processingDir, m.name)
}

// Nack returns the message to the failed directory for retry, or to the
// dead letter directory once MaxRetries is exceeded.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	return m.queue.fail(context.Background(), m)
}

// Config holds configuration for the filesystem queue.
type Config struct {
	BaseURL    string
	MaxRetries int
	// PollInterval is how often an idle Consume re-lists pending messages.
	PollInterval time.Duration
}

// DefaultConfig returns a default queue configuration rooted at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		MaxRetries:   3,
		PollInterval: 100 * time.Millisecond,
	}
}

// Queue implements a filesystem-based messaging.Queue. Messages are
// consumed in publish order.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	failedDir     string
	dlqDir        string
	mu            sync.Mutex
	seq           uint64
}

// NewQueue creates the queue directories under config.BaseURL.
func NewQueue[T any](ctx context.Context, fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig("").PollInterval
	}
	baseURL := url.Normalize(config.BaseURL, file.Scheme)
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    url.Join(baseURL, "pending"),
		processingDir: url.Join(baseURL, "processing"),
		failedDir:     url.Join(baseURL, "failed"),
		dlqDir:        url.Join(baseURL, "dlq"),
	}
	for _, dir := range []string{q.pendingDir, q.processingDir, q.failedDir, q.dlqDir} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, errors.Wrapf(err, "failed to create queue directory %s", dir)
		}
	}
	return q, nil
}

// Publish writes t to the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("payload cannot be nil")
	}
	now := time.Now()
	q.mu.Lock()
	q.seq++
	seq := q.seq
	q.mu.Unlock()
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// zero padded so that lexical order is publish order
	message.name = fmt.Sprintf("%020d-%06d-%s.json", now.UnixNano(), seq%1000000, message.ID)
	return q.write(ctx, q.pendingDir, message)
}

// Consume blocks until a message is available or ctx is done. Failed
// messages are retried before new ones.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		for _, dir := range []string{q.failedDir, q.pendingDir} {
			message, err := q.claim(ctx, dir)
			if err != nil || message != nil {
				return message, err
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.config.PollInterval):
		}
	}
}

// Size returns the number of pending and failed messages.
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	ret := 0
	for _, dir := range []string{q.pendingDir, q.failedDir} {
		names, err := q.list(ctx, dir)
		if err != nil {
			return 0, err
		}
		ret += len(names)
	}
	return ret, nil
}

// DLQSize returns the number of dead-lettered messages.
func (q *Queue[T]) DLQSize(ctx context.Context) (int, error) {
	names, err := q.list(ctx, q.dlqDir)
	return len(names), err
}

func (q *Queue[T]) claim(ctx context.Context, dir string) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.list(ctx, dir)
	if err != nil || len(names) == 0 {
		return nil, err
	}
	name := names[0]
	source := url.Join(dir, name)
	message, err := q.read(ctx, source)
	if err != nil {
		_ = q.fs.Move(ctx, source, url.Join(q.dlqDir, "invalid-"+name))
		return nil, err
	}
	message.name = name
	message.queue = q
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	if err = q.write(ctx, q.processingDir, message); err != nil {
		return nil, err
	}
	if err = q.fs.Delete(ctx, source); err != nil {
		return nil, errors.Wrapf(err, "failed to delete claimed message %s", source)
	}
	return message, nil
}

func (q *Queue[T]) fail(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	target := q.failedDir
	if m.Retries > q.config.MaxRetries {
		target = q.dlqDir
	}
	if err := q.write(ctx, target, m); err != nil {
		return err
	}
	return q.remove(ctx, q.processingDir, m.name)
}

func (q *Queue[T]) remove(ctx context.Context, dir, name string) error {
	location := url.Join(dir, name)
	if exists, _ := q.fs.Exists(ctx, location); !exists {
		return nil
	}
	return errors.Wrapf(q.fs.Delete(ctx, location), "failed to delete message %s", location)
}

func (q *Queue[T]) list(ctx context.Context, dir string) ([]string, error) {
	objects, err := q.fs.List(ctx, dir, option.NewRecursive(false))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	var ret []string
	for _, object := range objects {
		if isMessage(object) {
			ret = append(ret, object.Name())
		}
	}
	sort.Strings(ret)
	return ret, nil
}

func isMessage(object storage.Object) bool {
	return !object.IsDir() && strings.HasSuffix(object.Name(), ".json")
}

func (q *Queue[T]) write(ctx context.Context, dir string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}
	location := url.Join(dir, m.name)
	if err = q.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write message %s", location)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, location string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read message %s", location)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		return nil, errors.Wrapf(err, "failed to decode message %s", location)
	}
	return message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
