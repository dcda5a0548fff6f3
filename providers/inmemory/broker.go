// Package inmemory is an in-process messaging provider. It implements both
// shared API namespaces over one broker, which makes it useful as a
// development provider and as the vendor side of end-to-end tests.
//
// Message selectors use expr expressions evaluated against the message
// property map, e.g. `region == "eu"`.
package inmemory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
)

const subscriptionBuffer = 128

var errQueueDeleted = errors.New("inmemory: queue deleted")

type destKind int

const (
	kindQueue destKind = iota + 1
	kindTopic
)

// destRef identifies a broker destination inside message headers, so the
// same core message can be surfaced to either namespace facade.
type destRef struct {
	kind      destKind
	name      string
	temporary bool
}

// Broker is the in-process message broker shared by all facades built from
// the same provider export table.
type Broker struct {
	mu     sync.Mutex
	queues map[string]*queue
	topics map[string]*topic
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		queues: make(map[string]*queue),
		topics: make(map[string]*topic),
	}
}

func (b *Broker) ensureQueue(name string, temporary bool) *queue {
	b.mu.Lock()
	defer b.mu.Unlock()
	if q, ok := b.queues[name]; ok {
		return q
	}
	q := &queue{name: name, temporary: temporary}
	b.queues[name] = q
	return q
}

func (b *Broker) ensureTopic(name string) *topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.topics[name]; ok {
		return t
	}
	t := &topic{name: name}
	b.topics[name] = t
	return t
}

func (b *Broker) temporaryQueue() *queue {
	return b.ensureQueue("temp."+uuid.NewString(), true)
}

// deleteQueue tombstones the queue: later publishes fail instead of
// silently recreating it.
func (b *Broker) deleteQueue(name string) {
	b.mu.Lock()
	q, ok := b.queues[name]
	b.mu.Unlock()
	if ok {
		q.drop()
	}
}

func (b *Broker) publish(ref destRef, m *msgCore) error {
	switch ref.kind {
	case kindQueue:
		return b.ensureQueue(ref.name, ref.temporary).publish(m)
	case kindTopic:
		b.ensureTopic(ref.name).publish(m)
		return nil
	default:
		return fmt.Errorf("inmemory: destination %q has no kind", ref.name)
	}
}

func (b *Broker) subscribe(ref destRef, selector string) (*subscription, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	sub := &subscription{
		selector: sel,
		ch:       make(chan *msgCore, subscriptionBuffer),
		done:     make(chan struct{}),
	}
	switch ref.kind {
	case kindQueue:
		q := b.ensureQueue(ref.name, ref.temporary)
		sub.unsubscribe = func() { q.remove(sub) }
		q.add(sub)
	case kindTopic:
		t := b.ensureTopic(ref.name)
		sub.unsubscribe = func() { t.remove(sub) }
		t.add(sub)
	default:
		return nil, fmt.Errorf("inmemory: destination %q has no kind", ref.name)
	}
	return sub, nil
}

// queue delivers each message to exactly one matching subscriber, buffering
// while no subscriber matches.
type queue struct {
	mu        sync.Mutex
	name      string
	temporary bool
	deleted   bool
	pending   []*msgCore
	subs      []*subscription
	next      int
}

func (q *queue) publish(m *msgCore) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.deleted {
		return errQueueDeleted
	}
	if q.offer(m) {
		return nil
	}
	q.pending = append(q.pending, m)
	return nil
}

// offer hands m to one matching subscriber, round-robin. Caller holds q.mu.
func (q *queue) offer(m *msgCore) bool {
	for i := 0; i < len(q.subs); i++ {
		sub := q.subs[(q.next+i)%len(q.subs)]
		if !sub.matches(m) {
			continue
		}
		select {
		case sub.ch <- m:
			q.next = (q.next + i + 1) % len(q.subs)
			return true
		default:
		}
	}
	return false
}

func (q *queue) add(sub *subscription) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subs = append(q.subs, sub)

	remaining := q.pending[:0]
	for _, m := range q.pending {
		if sub.matches(m) {
			select {
			case sub.ch <- m:
				continue
			default:
			}
		}
		remaining = append(remaining, m)
	}
	q.pending = remaining
}

func (q *queue) remove(sub *subscription) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, s := range q.subs {
		if s == sub {
			q.subs = append(q.subs[:i], q.subs[i+1:]...)
			break
		}
	}
}

func (q *queue) drop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = true
	q.pending = nil
	q.subs = nil
}

// topic fans each message out to every matching subscriber; without
// subscribers the message is discarded.
type topic struct {
	mu   sync.Mutex
	name string
	subs []*subscription
}

func (t *topic) publish(m *msgCore) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		if !sub.matches(m) {
			continue
		}
		select {
		case sub.ch <- m:
		default:
		}
	}
}

func (t *topic) add(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, sub)
}

func (t *topic) remove(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			break
		}
	}
}

// subscription is one consumer's feed. Receive and listener dispatch both
// drain ch; a subscription is used by exactly one consumer.
type subscription struct {
	selector    *vm.Program
	ch          chan *msgCore
	unsubscribe func()

	closeOnce sync.Once
	done      chan struct{}
}

func (s *subscription) matches(m *msgCore) bool {
	if s.selector == nil {
		return true
	}
	out, err := expr.Run(s.selector, m.selectorEnv())
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func (s *subscription) receive(timeout time.Duration) *msgCore {
	if timeout <= 0 {
		select {
		case m := <-s.ch:
			return m
		case <-s.done:
			return nil
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case m := <-s.ch:
		return m
	case <-s.done:
		return nil
	case <-timer.C:
		return nil
	}
}

func (s *subscription) listen(fn func(*msgCore)) {
	go func() {
		for {
			select {
			case m := <-s.ch:
				fn(m)
			case <-s.done:
				return
			}
		}
	}()
}

func (s *subscription) close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		close(s.done)
	})
}

func compileSelector(selector string) (*vm.Program, error) {
	if selector == "" {
		return nil, nil
	}
	program, err := expr.Compile(selector,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("inmemory: compile selector %q: %w", selector, err)
	}
	return program, nil
}
