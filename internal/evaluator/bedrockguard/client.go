package bedrockguard

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/modguard/guardrail-relay/internal/evaluator"
	"github.com/rs/zerolog"
)

// Client evaluates guardrail checks through AWS Bedrock Guardrails.
// One configured guardrail covers all policies, so the per-check kind
// and assertion are not forwarded; the assessment decides the verdict.
type Client struct {
	client      *bedrockruntime.Client
	guardrailID string
	version     string
	logger      *zerolog.Logger
}

func NewClient(ctx context.Context, region string, guardrailID string, version string, logger *zerolog.Logger) (*Client, error) {
	if guardrailID == "" {
		return nil, fmt.Errorf("bedrock guardrail ID is required")
	}
	if version == "" {
		version = "1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		client:      bedrockruntime.NewFromConfig(cfg),
		guardrailID: guardrailID,
		version:     version,
		logger:      logger,
	}, nil
}

func (c *Client) Evaluate(ctx context.Context, request evaluator.Request) (*evaluator.Verdict, error) {
	contentBlock := types.GuardrailContentBlockMemberText{
		Value: types.GuardrailTextBlock{
			Text: aws.String(request.Text),
		},
	}

	output, err := c.client.ApplyGuardrail(ctx, &bedrockruntime.ApplyGuardrailInput{
		Content:             []types.GuardrailContentBlock{&contentBlock},
		GuardrailIdentifier: aws.String(c.guardrailID),
		GuardrailVersion:    aws.String(c.version),
		Source:              types.GuardrailContentSourceInput,
	})
	if err != nil {
		return nil, fmt.Errorf("apply guardrail call failed: %w", err)
	}

	for _, assessment := range output.Assessments {
		if assessment.TopicPolicy != nil {
			for _, topic := range assessment.TopicPolicy.Topics {
				if topic.Action == types.GuardrailTopicPolicyActionBlocked {
					c.logger.Debug().
						Str("check", string(request.Check)).
						Str("topic", aws.ToString(topic.Name)).
						Msg("content blocked by topic policy")
					return &evaluator.Verdict{
						Flagged: true,
						Reason:  fmt.Sprintf("topic '%s' is not allowed", aws.ToString(topic.Name)),
					}, nil
				}
			}
		}

		if assessment.ContentPolicy != nil {
			for _, filter := range assessment.ContentPolicy.Filters {
				if filter.Action == types.GuardrailContentPolicyActionBlocked {
					c.logger.Debug().
						Str("check", string(request.Check)).
						Str("filter", string(filter.Type)).
						Msg("content blocked by content policy")
					return &evaluator.Verdict{
						Flagged: true,
						Reason:  fmt.Sprintf("harmful content detected: %s", filter.Type),
					}, nil
				}
			}
		}
	}

	return &evaluator.Verdict{}, nil
}
