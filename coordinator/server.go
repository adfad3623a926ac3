package coordinator

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Server is the Listener + Supervisor. It binds a TCP address, accepts
// connections forever, and serves each one on its own goroutine. Accept
// failures are logged and the loop continues — it only stops once the
// listener itself is closed; a handler panic or I/O failure never reaches
// the accept loop or any other connection.
type Server struct {
	Addr string

	Tracker    *SettlementTracker
	Assembler  *WitnessAssembler
	Store      *ProofStore
	Attest     *AttestationSetup
	Metrics    *Metrics
	Log        log.Logger

	wg       sync.WaitGroup
	listener net.Listener
}

// ListenAndServe binds the listener and runs the accept loop until ctx is
// canceled or Close is called. It does not return until the accept loop
// exits.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.acceptLoop(ctx)
	s.wg.Wait()
	return nil
}

// Close stops the accept loop, causing ListenAndServe to return once
// in-flight connections finish.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.Log.Warn("accept failed", "err", err)
			continue
		}
		if s.Metrics != nil {
			s.Metrics.ConnectionsAccepted.Inc()
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.Log.Error("handler panicked", "peer", conn.RemoteAddr().String(), "recover", r)
				}
			}()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	peer := conn.RemoteAddr().String()

	data, err := io.ReadAll(conn)
	if err != nil {
		s.Log.Warn("connection read failed", "peer", peer, "err", err)
		return
	}

	msg, err := DecodeProofData(data)
	if err != nil {
		s.Log.Warn("malformed request", "peer", peer, "err", err)
		return
	}

	reply := s.dispatch(ctx, peer, msg)
	if reply == nil {
		return
	}

	out, err := EncodeProofData(reply)
	if err != nil {
		s.Log.Error("encode reply failed", "peer", peer, "err", err)
		return
	}
	if _, err := conn.Write(out); err != nil {
		s.Log.Warn("connection write failed", "peer", peer, "err", err)
	}
}

func (s *Server) dispatch(ctx context.Context, peer string, msg ProofData) ProofData {
	switch m := msg.(type) {
	case BatchRequest:
		return s.handleBatchRequest(ctx, peer)
	case ProofSubmit:
		return s.handleProofSubmit(ctx, peer, m)
	case ProverSetup:
		return s.handleProverSetup(ctx, peer, m)
	default:
		s.Log.Warn("unexpected message from peer, ignoring", "peer", peer, "type", m.tag())
		return nil
	}
}

func (s *Server) handleBatchRequest(ctx context.Context, peer string) ProofData {
	if s.Metrics != nil {
		s.Metrics.RequestsByVariant.WithLabelValues(tagBatchRequest).Inc()
	}
	start := time.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.DispatchLatency.WithLabelValues(tagBatchRequest).Observe(time.Since(start).Seconds())
		}
	}()

	batch, ok, err := s.Tracker.NextBatchToVerify(ctx)
	if err != nil {
		s.Log.Error("settlement tracker failed", "peer", peer, "err", err)
		return nil
	}
	if !ok {
		return BatchResponse{}
	}

	input, err := s.Assembler.Assemble(ctx, batch)
	if err != nil {
		s.Log.Error("witness assembly failed", "peer", peer, "batch", batch, "err", err)
		return nil
	}

	b := batch
	return BatchResponse{BatchNumber: &b, Input: input}
}

func (s *Server) handleProofSubmit(ctx context.Context, peer string, m ProofSubmit) ProofData {
	if s.Metrics != nil {
		s.Metrics.RequestsByVariant.WithLabelValues(tagProofSubmit).Inc()
	}

	m.BatchProof.BatchNumber = m.BatchNumber
	if m.BatchProof.SubmittedAt.IsZero() {
		m.BatchProof.SubmittedAt = time.Now()
	}
	if err := s.Store.Put(m.BatchNumber, m.BatchProof); err != nil {
		s.Log.Error("proof store write failed", "peer", peer, "batch", m.BatchNumber, "err", err)
		if s.Metrics != nil {
			s.Metrics.ProofWrites.WithLabelValues("error").Inc()
		}
		return nil
	}
	if s.Metrics != nil {
		s.Metrics.ProofWrites.WithLabelValues("ok").Inc()
	}
	return ProofSubmitAck{BatchNumber: m.BatchNumber}
}

func (s *Server) handleProverSetup(ctx context.Context, peer string, m ProverSetup) ProofData {
	if s.Metrics != nil {
		s.Metrics.RequestsByVariant.WithLabelValues(tagProverSetup).Inc()
	}

	if err := s.Attest.Run(ctx, m.ProverKind, m.Payload); err != nil {
		s.Log.Error("prover setup failed", "peer", peer, "kind", m.ProverKind, "err", err)
		if s.Metrics != nil {
			s.Metrics.AttestationOutcomes.WithLabelValues("error").Inc()
		}
		return nil
	}
	if s.Metrics != nil {
		s.Metrics.AttestationOutcomes.WithLabelValues("ok").Inc()
	}
	return ProverSetupAck{}
}
