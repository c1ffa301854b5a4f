package finetune

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"finetune_admin/internal/providers"
)

const (
	jobStatusKeyPrefix   = "finetune:job:"
	jobRecordedKeyPrefix = "finetune:recorded:"
)

// JobCache keeps the last known status of fine-tune jobs in Redis so rapid
// re-polls skip the provider, and remembers which succeeded jobs already had
// their model recorded into the registry. A nil JobCache (or nil client)
// disables caching: reads miss, writes are dropped.
type JobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobCache creates a cache with the given status TTL.
func NewJobCache(client *redis.Client, ttl time.Duration) *JobCache {
	return &JobCache{client: client, ttl: ttl}
}

// GetStatus returns the cached status for a job, if any.
func (c *JobCache) GetStatus(ctx context.Context, jobID string) (*providers.FineTuneStatus, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, jobStatusKeyPrefix+jobID).Bytes()
	if err != nil {
		return nil, false
	}

	var status providers.FineTuneStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, false
	}
	return &status, true
}

// SetStatus stores a freshly polled status. Cache errors are ignored; the
// next poll just hits the provider again.
func (c *JobCache) SetStatus(ctx context.Context, status *providers.FineTuneStatus) {
	if c == nil || c.client == nil || status == nil {
		return
	}

	data, err := json.Marshal(status)
	if err != nil {
		return
	}
	c.client.Set(ctx, jobStatusKeyPrefix+status.JobID, data, c.ttl)
}

// MarkRecorded notes that the job's fine-tuned model has been stored in the
// registry. The marker has no TTL so a success is never recorded twice.
func (c *JobCache) MarkRecorded(ctx context.Context, jobID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, jobRecordedKeyPrefix+jobID, "1", 0)
}

// IsRecorded reports whether the job's model was already recorded.
func (c *JobCache) IsRecorded(ctx context.Context, jobID string) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, jobRecordedKeyPrefix+jobID).Result()
	return err == nil && n > 0
}
