package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/modguard/guardrail-relay/internal/executor"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// moderationJob is the stream message payload: text plus the checks to
// run, by canonical name. Unknown names are dropped, same rule as the
// HTTP path.
type moderationJob struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Checks []string `json:"checks"`
}

type Consumer struct {
	client        *redis.Client
	stream        string
	resultsStream string
	groupID       string
	consumerName  string
	executor      *executor.Executor
	logger        *zerolog.Logger
}

func NewConsumer(
	client *redis.Client,
	stream string,
	resultsStream string,
	groupID string,
	consumerName string,
	exec *executor.Executor,
	logger *zerolog.Logger,
) *Consumer {
	return &Consumer{
		client:        client,
		stream:        stream,
		resultsStream: resultsStream,
		groupID:       groupID,
		consumerName:  consumerName,
		executor:      exec,
		logger:        logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var job moderationJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	mc, err := normalize(job, msg.ID)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Invalid moderation job")
		c.publishError(ctx, msg.ID, err)
		c.ack(ctx, msg.ID)
		return
	}

	result, err := c.executor.Execute(ctx, mc)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Guardrail evaluation failed")
		// The failure is published as the job's outcome, so the message is
		// acked like any other processed job. Nothing reads the pending
		// entries list, an unacked message would linger there forever.
		c.publishError(ctx, msg.ID, err)
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Interface("verdict", result["verdict"]).
		Msg("Guardrail evaluation complete")

	c.publishResult(ctx, msg.ID, job.ID, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publishResult(ctx context.Context, msgID string, jobID string, result models.GuardrailResponse) {
	body, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultsStream,
		Values: map[string]any{
			"job_id":  jobID,
			"payload": string(body),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to publish result")
	}
}

func (c *Consumer) publishError(ctx context.Context, msgID string, jobErr error) {
	err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultsStream,
		Values: map[string]any{
			"job_id": msgID,
			"error":  jobErr.Error(),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to publish error")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

func normalize(job moderationJob, msgID string) (models.ModerationContext, error) {
	mc := models.ModerationContext{
		RequestID: job.ID,
		Text:      job.Text,
		Requested: make(map[models.CheckName]bool),
		CreatedAt: time.Now(),
	}
	if mc.RequestID == "" {
		mc.RequestID = msgID
	}
	if strings.TrimSpace(job.Text) == "" {
		return mc, errors.New("moderation job has no text")
	}

	for _, raw := range job.Checks {
		if name, ok := models.ParseCheckName(raw); ok {
			mc.Requested[name] = true
		}
	}
	if len(mc.Requested) == 0 {
		return mc, errors.New("moderation job has no recognized checks")
	}

	return mc, nil
}
