package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// queueClient is the transport the dispatcher rides on. The in-memory
// implementation serves development and tests; SQS serves deployments.
type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// turnJob is the queue payload: one conversation turn tagged with a job id
// so the enqueuing goroutine can collect its result.
type turnJob struct {
	ID   string      `json:"id"`
	Turn TurnRequest `json:"turn"`
}

func encodeTurnJob(req TurnRequest) (turnJob, string, error) {
	job := turnJob{ID: uuid.NewString(), Turn: req}
	body, err := json.Marshal(job)
	if err != nil {
		return turnJob{}, "", fmt.Errorf("conversation: encode turn job: %w", err)
	}
	return job, string(body), nil
}
