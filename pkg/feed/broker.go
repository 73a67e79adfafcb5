package feed

import (
	"sync"

	"github.com/localhive/event-catalog/pkg/model"
)

// subscriberBuffer is the number of activities a subscriber can fall behind before missing some.
const subscriberBuffer = 16

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uint]subscriber),
	}
}

// Activity is one feed entry describing a write to the catalog.
type Activity struct {
	Action  string `json:"action"`
	EventID uint   `json:"eventId"`
	Title   string `json:"title"`
}

type subscriber struct {
	user    model.User
	channel chan Activity
}

// Broker fans activities out to the subscribed users. Every subscriber receives every broadcast
// activity through its own buffered channel.
type Broker struct {
	subscribers map[uint]subscriber
	lock        sync.Mutex
}

// Subscribe registers the user. Subscribing an already subscribed user replaces the previous
// subscription and ends its pending Receive.
func (b *Broker) Subscribe(user model.User) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if previous, ok := b.subscribers[user.ID]; ok {
		close(previous.channel)
	}
	b.subscribers[user.ID] = subscriber{
		user:    user,
		channel: make(chan Activity, subscriberBuffer),
	}
}

// Unsubscribe removes the subscriber and ends their pending Receive. Unsubscribing a user that
// isn't subscribed is a no-op.
func (b *Broker) Unsubscribe(id uint) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if subscriber, ok := b.subscribers[id]; ok {
		close(subscriber.channel)
		delete(b.subscribers, id)
	}
}

// Broadcast delivers activity to every subscriber. A subscriber whose buffer is full misses the
// activity instead of blocking delivery to the others.
func (b *Broker) Broadcast(activity Activity) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, subscriber := range b.subscribers {
		select {
		case subscriber.channel <- activity:
		default:
		}
	}
}

// Receive blocks until an activity is broadcast to the subscriber with id. It reports false once
// the subscriber is unsubscribed or if it was never subscribed.
func (b *Broker) Receive(id uint) (Activity, bool) {
	b.lock.Lock()
	subscriber, ok := b.subscribers[id]
	b.lock.Unlock()
	if !ok {
		return Activity{}, false
	}

	activity, ok := <-subscriber.channel
	return activity, ok
}
