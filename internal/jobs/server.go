package jobs

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hibiken/asynq"
)

// Worker is the in-process asynq server for the extraction queue.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(redisURL string, l *log.Logger, ex *Extraction) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{QueueExtraction: 1},
		Logger:      asynqLogger{l.WithPrefix("asynq")},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			id, _ := asynq.GetTaskID(ctx)
			l.Error("task failed", "type", t.Type(), "task_id", id, "err", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExtractDocument, ex.ProcessTask)
	return &Worker{srv: srv, mux: mux}, nil
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

// Shutdown waits for the active task and stops the worker.
func (w *Worker) Shutdown() {
	if w == nil {
		return
	}
	w.srv.Shutdown()
}

type asynqLogger struct {
	l *log.Logger
}

func (a asynqLogger) Debug(args ...any) { a.l.Debug(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...any)  { a.l.Info(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...any)  { a.l.Warn(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...any) { a.l.Error(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...any) { a.l.Fatal(fmt.Sprint(args...)) }
