package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/scheduler"
	"scribe/internal/store"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path     string
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, logger: logger}
	if err := rpcServer.RegisterName("Scribe", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	srv := &Server{
		path:     path,
		logger:   logger,
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
	}
	srv.serve(rpcServer)
	return srv, nil
}

func (s *Server) serve(rpcServer *rpc.Server) {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("ipc accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
			}()
		}
	}()
}

// Close stops accepting connections and removes the socket.
func (s *Server) Close() {
	s.cancel()
	_ = s.listener.Close()
	s.wg.Wait()
	_ = os.RemoveAll(s.path)
}

// service implements the RPC surface. Method signatures follow net/rpc
// conventions.
type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
}

func (s *service) Submit(req SubmitRequest, resp *SubmitResponse) error {
	kind := scheduler.KindTranscribe
	if req.Kind != "" {
		parsed, ok := scheduler.ParseKind(req.Kind)
		if !ok {
			return fmt.Errorf("unknown request kind %q", req.Kind)
		}
		kind = parsed
	}

	enqueued, err := s.daemon.Submit(kind, req.InputPaths, req.Options)
	if err != nil {
		return err
	}
	resp.Enqueued = enqueued
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.DatabasePath = status.DatabasePath
	resp.Queue = QueueStatus{
		PendingPaths: status.Queue.PendingPaths,
		ActivePath:   status.Queue.ActivePath,
		ActiveSince:  status.Queue.ActiveSince,
		Completed:    status.Queue.Completed,
		Total:        status.Queue.Total,
		Progress:     status.Queue.Progress,
	}
	for _, check := range status.Checks {
		resp.Checks = append(resp.Checks, CheckResult{
			Name:   check.Name,
			Passed: check.Passed,
			Detail: check.Detail,
		})
	}
	return nil
}

func (s *service) Cancel(_ CancelRequest, resp *CancelResponse) error {
	resp.Dropped = s.daemon.Cancel()
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) TranscriptList(_ TranscriptListRequest, resp *TranscriptListResponse) error {
	transcripts, err := s.daemon.Store().List(context.Background())
	if err != nil {
		return err
	}
	for _, t := range transcripts {
		resp.Transcripts = append(resp.Transcripts, summarize(t))
	}
	return nil
}

func (s *service) TranscriptGet(req TranscriptGetRequest, resp *TranscriptGetResponse) error {
	transcript, err := s.daemon.Store().GetByID(context.Background(), req.ID)
	if err != nil {
		return err
	}
	resp.Transcript = summarize(*transcript)
	resp.Segments = transcript.Segments
	return nil
}

func summarize(t store.Transcript) TranscriptSummary {
	return TranscriptSummary{
		ID:           t.ID,
		InputPath:    t.InputPath,
		Kind:         t.Kind,
		Model:        t.Model,
		Language:     t.Language,
		CreatedAt:    t.CreatedAt,
		SegmentCount: t.SegmentCount,
	}
}
