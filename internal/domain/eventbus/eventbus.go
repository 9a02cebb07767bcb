package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

var (
	instance evbus.Bus
	asyncBus *AsyncEventBus
	once     sync.Once
)

func initBuses() {
	instance = New()
	asyncBus = NewAsyncEventBus(4)
	asyncBus.Start()
}

// Get returns the process-wide synchronous bus.
func Get() evbus.Bus {
	once.Do(initBuses)
	return instance
}

// GetAsync returns the process-wide asynchronous bus.
func GetAsync() *AsyncEventBus {
	once.Do(initBuses)
	return asyncBus
}

// New creates an independent synchronous bus.
func New() evbus.Bus {
	return evbus.New()
}

// Publish delivers an event synchronously to all subscribers.
func Publish(topic string, args ...interface{}) {
	Get().Publish(topic, args...)
}

// PublishAsync enqueues an event for delivery by the worker pool.
func PublishAsync(topic string, args ...interface{}) {
	GetAsync().PublishAsync(topic, args...)
}

func Subscribe(topic string, fn interface{}) error {
	return Get().Subscribe(topic, fn)
}

func SubscribeAsync(topic string, fn interface{}) error {
	return GetAsync().SubscribeAsync(topic, fn)
}

// Shutdown drains the async worker pool.
func Shutdown() {
	if asyncBus != nil {
		asyncBus.Stop()
	}
}
