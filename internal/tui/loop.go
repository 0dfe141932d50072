package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Loop hands work from other goroutines to Update, the only place the
// manager may be touched. Image callbacks, watcher reloads and save
// errors all arrive through Post.
type Loop struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// postedMsg carries a function posted to the loop.
type postedMsg func()

// NewLoop creates an open loop.
func NewLoop() *Loop {
	return &Loop{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Post queues fn to run in Update. It blocks while the queue is full
// and drops fn once the loop is closed.
func (l *Loop) Post(fn func()) {
	select {
	case l.ch <- fn:
	case <-l.done:
	}
}

// Close stops delivery; pending and later posts are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// wait is the command that delivers the next posted function.
func (l *Loop) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-l.ch:
			return postedMsg(fn)
		case <-l.done:
			return nil
		}
	}
}
