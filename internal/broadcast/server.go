package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/clockrobustus/clockd/internal/log"
)

// Server accepts subscriber connections on a TCP listener and pushes every
// broadcast message to them as length-prefixed msgpack frames. Accepting and
// serving connections never runs on the tick goroutine, so a slow or stalled
// subscriber cannot delay tick production.
type Server struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	addr        string
	broadcaster *Broadcaster
	listener    net.Listener
	logger      *zap.SugaredLogger
}

// NewServer creates a broadcast server listening on addr.
func NewServer(ctx context.Context, wg *sync.WaitGroup, addr string, b *Broadcaster, logger *zap.SugaredLogger) *Server {
	return &Server{
		ctx:         ctx,
		wg:          wg,
		addr:        addr,
		broadcaster: b,
		logger:      logger,
	}
}

// StartController binds the listener and launches the accept loop.
func (s *Server) StartController() error {
	log.Info("Starting broadcast controller...")

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("could not create broadcast listener: %w", err)
	}
	s.listener = listener
	s.logger.Infof("Broadcast server listening on %s", s.addr)

	s.wg.Add(1)
	go s.acceptLoop()

	go func() {
		<-s.ctx.Done()
		log.Info("Shutting down the broadcast server...")
		s.listener.Close()
	}()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Errorf("broadcast accept error: %v", err)
			continue
		}

		go s.serveSubscriber(conn)
	}
}

// serveSubscriber streams broadcast messages to one connection until the
// subscriber disconnects or the daemon shuts down.
func (s *Server) serveSubscriber(conn net.Conn) {
	sub := s.broadcaster.Subscribe()
	defer sub.Close()
	defer conn.Close()

	s.logger.Infof("Registering new broadcast subscriber [%s] from %v", sub.ID(), conn.RemoteAddr())

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if err := WriteFrame(conn, msg); err != nil {
				s.logger.Infof("Subscriber [%s] disconnected: %v", sub.ID(), err)
				return
			}
		}
	}
}
