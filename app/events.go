// Package app publishes usage events to SQS for offline analytics.
package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// UsageEvent records one admission decision. Events are best-effort: losing
// one must never fail or slow down the request that produced it.
type UsageEvent struct {
	ClientID string    `json:"client_id"`
	Day      string    `json:"day"`
	Used     int       `json:"used"`
	IsPro    bool      `json:"is_pro"`
	Admitted bool      `json:"admitted"`
	Tone     string    `json:"tone"`
	Scenario string    `json:"scenario"`
	At       time.Time `json:"at"`
}

type EventPublisher struct {
	client   *sqs.Client
	queueURL string
}

// NewEventPublisher builds a publisher for the configured queue. Returns
// nil when no queue is configured or AWS config cannot load; a nil
// publisher is safe to use and publishes nothing.
func NewEventPublisher(ctx context.Context, queueURL string) *EventPublisher {
	if queueURL == "" {
		log.Printf("QUEUE_URL missing in config; usage events disabled")
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("failed to load AWS config for SQS: %v", err)
		return nil
	}
	return &EventPublisher{
		client:   sqs.NewFromConfig(awsCfg),
		queueURL: queueURL,
	}
}

// Publish sends one event, logging and dropping it on any failure.
func (p *EventPublisher) Publish(ctx context.Context, ev UsageEvent) {
	if p == nil {
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal usage event client=%s: %v", ev.ClientID, err)
		return
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		log.Printf("failed to send usage event client=%s: %v", ev.ClientID, err)
	}
}
