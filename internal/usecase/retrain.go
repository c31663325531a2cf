package usecase

import (
	"context"
	"errors"

	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// RetrainMessageType routes retrain jobs on the queue.
const RetrainMessageType = "model.retrain"

// RetrainPayload is the queued retrain request.
type RetrainPayload struct {
	Symbol string `json:"symbol"`
}

// RetrainJob consumes queued retrain requests and refits the symbol's
// model in the background.
type RetrainJob struct {
	trainer *Trainer
	l       *applogger.Logger
}

func NewRetrainJob(trainer *Trainer, l *applogger.Logger) *RetrainJob {
	return &RetrainJob{trainer: trainer, l: l}
}

func (j *RetrainJob) Name() string { return "model-retrainer" }
func (j *RetrainJob) Type() string { return RetrainMessageType }

func (j *RetrainJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RetrainPayload](payload)
	if err != nil {
		return err
	}

	report, err := j.trainer.Train(ctx, p.Symbol)
	if err != nil {
		// Another trainer already working the symbol is not a failure
		// worth retrying.
		if errors.Is(err, ErrTrainInProgress) {
			if j.l != nil {
				j.l.Info("retrain skipped, lock held", applogger.String("symbol", p.Symbol))
			}
			return nil
		}
		return err
	}

	if j.l != nil {
		j.l.Info("background retrain complete",
			applogger.String("symbol", p.Symbol),
			applogger.Any("validation_r2", report.ValidationScore),
		)
	}
	return nil
}

var _ queue.Job = (*RetrainJob)(nil)
