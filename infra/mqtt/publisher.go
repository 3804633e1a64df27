package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/logger"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/monitoring"
	"github.com/kilianp07/dronecoord/core/ops"
	"github.com/kilianp07/dronecoord/internal/eventbus"
)

// Publisher mirrors coordinator decisions to an MQTT broker and, when
// enabled, accepts structured operation requests on <prefix>/commands.
type Publisher struct {
	cli     pahoClient
	cfg     Config
	log     logger.Logger
	exec    *ops.Executor
	backoff time.Duration

	mu  sync.Mutex
	ctx context.Context
}

// commandReply is published on <prefix>/responses for every command.
type commandReply struct {
	RequestID string        `json:"request_id,omitempty"`
	Status    string        `json:"status"`
	Kind      string        `json:"kind,omitempty"`
	Message   string        `json:"message,omitempty"`
	Blockers  []string      `json:"blockers,omitempty"`
	Response  *ops.Response `json:"response,omitempty"`
}

type commandRequest struct {
	RequestID string `json:"request_id"`
	ops.Request
}

// NewPublisher connects to the broker. exec may be nil, in which case the
// command topic is not subscribed even if configured.
func NewPublisher(cfg Config, exec *ops.Executor, log logger.Logger) (*Publisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		cfg:     cfg,
		log:     logger.OrNop(log),
		exec:    exec,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
		ctx:     context.Background(),
	}
	opts.OnConnect = func(c paho.Client) {
		p.log.Infof("MQTT connected")
		if !cfg.Commands || p.exec == nil {
			return
		}
		if token := c.Subscribe(p.topic("commands"), cfg.qos("commands"), p.onCommand); token.Wait() && token.Error() != nil {
			p.log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		p.log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		p.log.Warnf("reconnecting to MQTT broker")
	}
	// Assigned before Connect so OnConnect can publish.
	p.cli = newMQTTClient(opts)
	if token := p.cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return p, nil
}

func (p *Publisher) topic(parts ...string) string {
	t := p.cfg.TopicPrefix
	for _, s := range parts {
		t += "/" + s
	}
	return t
}

// PublishDecision sends d as JSON to <prefix>/decisions/<operation>.
func (p *Publisher) PublishDecision(d events.Decision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	topic := p.topic("decisions", d.Operation)
	if err := publish(p.cli, p.log, topic, p.cfg.qos("decisions"), p.cfg.Retain, payload, p.cfg.MaxRetries, p.backoff); err != nil {
		return err
	}
	p.log.Debugf("published decision %s to %s", d.ID, topic)
	return nil
}

// Run forwards every decision from bus until ctx is canceled or the bus is
// closed. The returned channel is closed on exit.
func (p *Publisher) Run(ctx context.Context, bus *eventbus.TypedBus[events.Decision]) <-chan struct{} {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer monitoring.Recover()
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-sub:
				if !ok {
					return
				}
				if err := p.PublishDecision(d); err != nil {
					p.log.Warnf("publish decision %s: %v", d.ID, err)
					monitoring.CaptureException(err, map[string]string{"component": "mqtt", "operation": d.Operation})
				}
			}
		}
	}()
	return done
}

func (p *Publisher) onCommand(_ paho.Client, msg paho.Message) {
	var req commandRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		p.log.Errorf("failed to decode command: %v", err)
		p.reply(commandReply{Status: "failed", Kind: model.KindOf(model.ErrValidation), Message: err.Error()})
		return
	}
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	resp, err := p.exec.Execute(ctx, req.Request)
	if err != nil {
		p.log.Warnf("command %s (%s) failed: %v", req.Op, req.RequestID, err)
		p.reply(commandReply{
			RequestID: req.RequestID,
			Status:    "failed",
			Kind:      model.KindOf(err),
			Message:   err.Error(),
			Blockers:  model.BlockersOf(err),
		})
		return
	}
	p.reply(commandReply{RequestID: req.RequestID, Status: "ok", Response: &resp})
}

func (p *Publisher) reply(r commandReply) {
	payload, err := json.Marshal(r)
	if err != nil {
		p.log.Errorf("encode reply: %v", err)
		return
	}
	if err := publish(p.cli, p.log, p.topic("responses"), p.cfg.qos("responses"), false, payload, p.cfg.MaxRetries, p.backoff); err != nil {
		p.log.Errorf("publish reply: %v", err)
	}
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
