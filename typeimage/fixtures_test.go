package typeimage

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skdltmxn/typeimage-go/internal/descriptor"
)

var (
	typeInt    = reflect.TypeFor[int]()
	typeString = reflect.TypeFor[string]()
	typeInts   = reflect.TypeFor[[]int]()
)

type class struct {
	PublicField int
	hidden      string
}

type calc struct{}

func (calc) Method(value int) int { return value + 1 }

func (calc) Scale(v int, factors ...int) int {
	for _, f := range factors {
		v *= f
	}
	return v
}

func (calc) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivByZero
	}
	return a / b, nil
}

func (calc) Crash() { panic("boom") }

func (calc) Split() (int, int) { return 1, 2 }

var errDivByZero = errors.New("division by zero")

type buffer struct {
	values []int
}

func (b *buffer) At(i int) int     { return b.values[i] }
func (b *buffer) Set(i int, v int) { b.values[i] = v }

type view struct {
	values []int
}

func (v *view) At(i int) int { return v.values[i] }

type third struct {
	Name   string
	Values []int
}

func newThird(name string, values ...int) *third {
	return &third{Name: name, Values: values}
}

type base struct {
	ID    int
	calls int
}

func (b *base) Describe() string { return "base" }
func (b *base) Hello() string    { b.calls++; return "hello" }

type derived struct {
	base
	ID string
}

func (d *derived) Describe() string { return "derived" }

type account struct {
	balance int
	owner   string `image:"Owner"`
}

func (a *account) Balance() int { return a.balance }

func (a *account) SetBalance(v int) error {
	if v < 0 {
		return fmt.Errorf("negative balance %d", v)
	}
	a.balance = v
	return nil
}

func (a *account) Owner() string   { return a.owner }
func (a *account) Summary() string { return fmt.Sprintf("%s: %d", a.owner, a.balance) }

type badge struct {
	name   string `image:"Name"`
	broken bool
}

func (b *badge) Name() (string, error) {
	if b.broken {
		return "", errors.New("broken badge")
	}
	return "[" + b.name + "]", nil
}

type labeled struct {
	fmt.Stringer
	Tag string
}

type node struct {
	*node
	Value int
}

type outer struct {
	Label string
	*derived
}

var (
	settingsLimit = 3
	settingsMode  = "fast"
)

type settings struct {
	Level int
}

func double(v int) int { return v * 2 }

func newSettings() *settings { return &settings{Level: 1} }

func (s *settings) Relay(inner *MethodImage, args ...any) (any, error) {
	return inner.Call(nil, args...)
}

func registerSettings(c *Cache) error {
	return c.Register(reflect.TypeFor[settings](),
		Var("Limit", &settingsLimit),
		Const("Max", 10),
		Func("settings.Double", double),
		Prop("Mode", func() string { return settingsMode }, func(v string) { settingsMode = v }),
		Ctor(newSettings),
	)
}

// countingSource counts how often each type is described.
type countingSource struct {
	inner descriptor.Source
	mu    sync.Mutex
	calls map[reflect.Type]int
}

func newCountingSource() *countingSource {
	return &countingSource{
		inner: descriptor.NewReflect(nil),
		calls: make(map[reflect.Type]int),
	}
}

func (s *countingSource) Describe(t reflect.Type) *descriptor.Level {
	s.mu.Lock()
	s.calls[t]++
	s.mu.Unlock()
	return s.inner.Describe(t)
}

func (s *countingSource) count(t reflect.Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[t]
}

// recordingMetrics keeps every event it receives.
type recordingMetrics struct {
	mu        sync.Mutex
	built     []reflect.Type
	generated map[string]int
	faults    map[ErrorKind]int
	invokers  atomic.Int64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		generated: make(map[string]int),
		faults:    make(map[ErrorKind]int),
	}
}

func (m *recordingMetrics) ImageBuilt(t reflect.Type, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.built = append(m.built, t)
}

func (m *recordingMetrics) InvokerGenerated(kind MemberKind, shape string, arity int) {
	m.invokers.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated[fmt.Sprintf("%s/%s/%d", kind, shape, arity)]++
}

func (m *recordingMetrics) Fault(kind ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[kind]++
}
